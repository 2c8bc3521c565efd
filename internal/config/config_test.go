package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiyuey/bookagent/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, 240, cfg.Server.WriteTimeout)
		require.Equal(t, 180, cfg.Query.TimeoutSeconds)
		require.Equal(t, "localhost:6379", cfg.Redis.Addr)
		require.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
		require.Equal(t, "https://dashscope.aliyuncs.com/compatible-mode/v1", cfg.DashScope.BaseURL)
		require.Empty(t, cfg.OpenAI.APIKey)
		require.False(t, cfg.Echo.Enabled)
		require.Equal(t, "qwen-max", cfg.Models.DefaultModel)
		require.NotEmpty(t, cfg.Models.Available)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("QUERY_TIMEOUT", "60")
		t.Setenv("REDIS_ADDR", "redis:6380")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("OPENAI_PROXY_URL", "socks5://127.0.0.1:1080")
		t.Setenv("DASHSCOPE_API_KEY", "sk-ds-key")
		t.Setenv("ECHO_ENABLED", "true")
		t.Setenv("APP_DEFAULT_MODEL", "qwen-plus")

		cfg := config.Load()

		require.NotNil(t, cfg)
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, 60, cfg.Query.TimeoutSeconds)
		require.Equal(t, "redis:6380", cfg.Redis.Addr)
		require.Equal(t, "sk-test-key", cfg.OpenAI.APIKey)
		require.Equal(t, "socks5://127.0.0.1:1080", cfg.OpenAI.ProxyURL)
		require.Equal(t, "sk-ds-key", cfg.DashScope.APIKey)
		require.True(t, cfg.Echo.Enabled)
		require.Equal(t, "qwen-plus", cfg.Models.DefaultModel)
	})

	t.Run("should override the model catalogue from JSON", func(t *testing.T) {
		t.Setenv("APP_MODELS_JSON", `[{"id":"qwen-max","name":"Qwen Max","description":"default"}]`)
		t.Setenv("APP_DEFAULT_MODEL", "qwen-max")

		cfg := config.Load()

		require.Len(t, cfg.Models.Available, 1)
		require.Equal(t, "qwen-max", cfg.Models.Available[0].ID)
		require.Equal(t, "Qwen Max", cfg.Models.Available[0].Name)
	})

	t.Run("should reject an invalid model catalogue", func(t *testing.T) {
		t.Setenv("APP_MODELS_JSON", `not json`)

		require.Panics(t, func() { config.Load() })
	})
}
