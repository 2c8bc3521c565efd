package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/qiyuey/bookagent/internal/config"
	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/httpserver"
	"github.com/qiyuey/bookagent/internal/httpserver/middleware"
	"github.com/qiyuey/bookagent/internal/observability"
	"github.com/qiyuey/bookagent/internal/provider/dashscope"
	"github.com/qiyuey/bookagent/internal/provider/echo"
	"github.com/qiyuey/bookagent/internal/provider/openai"
	"github.com/qiyuey/bookagent/internal/provider/registry"
	redisstore "github.com/qiyuey/bookagent/internal/store/redis"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *httpserver.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Session store
	if err := container.Provide(func(cfg *redisstore.Config) (domain.SessionStore, error) {
		return redisstore.NewStore(context.Background(), *cfg)
	}); err != nil {
		log.Fatalf("Failed to provide session store: %v", err)
	}

	// Backend providers. DashScope is the mandatory catch-all; OpenAI and
	// echo are optional and skipped when not configured.
	if err := container.Provide(func(
		logger *zap.Logger,
		openaiCfg *openai.Config,
		dashscopeCfg *dashscope.Config,
		echoCfg *echo.Config,
	) ([]domain.BackendProvider, error) {
		var providers []domain.BackendProvider

		if openaiCfg.APIKey != "" {
			openaiProvider, err := openai.NewProvider(*openaiCfg)
			if err != nil {
				return nil, err
			}
			providers = append(providers, openaiProvider)
			logger.Info("OpenAI provider enabled", zap.String("base_url", openaiCfg.BaseURL))
		} else {
			logger.Warn("OpenAI API key not configured, OpenAI models will be unavailable")
		}

		if echoCfg.Enabled {
			providers = append(providers, echo.NewProvider())
			logger.Info("echo provider enabled")
		}

		dashscopeProvider, err := dashscope.NewProvider(*dashscopeCfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, dashscopeProvider)

		return providers, nil
	}); err != nil {
		log.Fatalf("Failed to provide backend providers: %v", err)
	}

	// Backend registry
	if err := container.Provide(func(providers []domain.BackendProvider) domain.BackendRegistry {
		return registry.New(providers...)
	}); err != nil {
		log.Fatalf("Failed to provide backend registry: %v", err)
	}

	// Domain services
	if err := container.Provide(func(
		store domain.SessionStore,
		reg domain.BackendRegistry,
		models *config.ModelsConfig,
	) *domain.TitleGenerator {
		return domain.NewTitleGenerator(store, reg, models.DefaultModel)
	}); err != nil {
		log.Fatalf("Failed to provide title generator: %v", err)
	}
	if err := container.Provide(func(
		reg domain.BackendRegistry,
		store domain.SessionStore,
		titles *domain.TitleGenerator,
		queryCfg *config.QueryConfig,
	) *domain.Orchestrator {
		timeout := time.Duration(queryCfg.TimeoutSeconds) * time.Second
		return domain.NewOrchestrator(reg, store, titles, timeout)
	}); err != nil {
		log.Fatalf("Failed to provide orchestrator: %v", err)
	}
	if err := container.Provide(func(o *domain.Orchestrator) httpserver.QueryService {
		return o
	}); err != nil {
		log.Fatalf("Failed to provide query service: %v", err)
	}

	// HTTP layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(httpserver.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(httpserver.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
