package config

import (
	"encoding/json"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/qiyuey/bookagent/internal/provider/dashscope"
	"github.com/qiyuey/bookagent/internal/provider/echo"
	"github.com/qiyuey/bookagent/internal/provider/openai"
	"github.com/qiyuey/bookagent/internal/store/redis"
)

// Config represents the gateway configuration.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Query     QueryConfig
	Models    ModelsConfig
	Redis     redis.Config
	OpenAI    openai.Config
	DashScope dashscope.Config
	Echo      echo.Config
}

// ServerConfig contains HTTP server settings. The write timeout must leave
// room for a full streaming response, so it defaults above the query timeout.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"240"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// QueryConfig bounds the streaming query pipeline.
type QueryConfig struct {
	TimeoutSeconds int `env:"QUERY_TIMEOUT" envDefault:"180"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	Server    *ServerConfig
	CORS      *CORSConfig
	Query     *QueryConfig
	Models    *ModelsConfig
	Redis     *redis.Config
	OpenAI    *openai.Config
	DashScope *dashscope.Config
	Echo      *echo.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	if err := cfg.Models.resolve(); err != nil {
		panic(fmt.Errorf("invalid model catalogue: %w", err))
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Query,
		&cfg.Models,
		&cfg.Redis,
		&cfg.OpenAI,
		&cfg.DashScope,
		&cfg.Echo,
	}
}

// resolve fills the model catalogue from the JSON override or the built-in
// default list.
func (m *ModelsConfig) resolve() error {
	if m.JSON == "" {
		m.Available = defaultCatalogue()
		return nil
	}
	if err := json.Unmarshal([]byte(m.JSON), &m.Available); err != nil {
		return err
	}
	if len(m.Available) == 0 {
		return fmt.Errorf("model list is empty")
	}
	return nil
}
