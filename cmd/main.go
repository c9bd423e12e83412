package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"

	rediscache "github.com/inklight-ai/condense/internal/cache/redis"
	"github.com/inklight-ai/condense/internal/config"
	"github.com/inklight-ai/condense/internal/domain"
	"github.com/inklight-ai/condense/internal/extractor/pdf"
	"github.com/inklight-ai/condense/internal/httpserver"
	httpmiddleware "github.com/inklight-ai/condense/internal/httpserver/middleware"
	"github.com/inklight-ai/condense/internal/observability"
	"github.com/inklight-ai/condense/internal/provider/extractive"
	"github.com/inklight-ai/condense/internal/provider/openai"
	"github.com/inklight-ai/condense/internal/provider/registry"
	"github.com/inklight-ai/condense/internal/related"
	"github.com/inklight-ai/condense/internal/tokenizer"
)

// ErrProviderNotConfigured indicates that a provider is not configured and should be skipped.
var ErrProviderNotConfigured = errors.New("provider not configured")

const shutdownTimeout = 10 * time.Second

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *httpserver.Server) {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		go func() {
			<-stop
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Printf("Server shutdown failed: %v", err)
			}
		}()

		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

//nolint:funlen // Container wiring is naturally sequential
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
	if err := container.Provide(func() *slog.Logger {
		return slog.Default()
	}); err != nil {
		log.Fatalf("Failed to provide event logger: %v", err)
	}
	if err := container.Provide(func(logger *slog.Logger) domain.EventPublisher {
		return observability.NewEventBus(logger)
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Tokenizer
	if err := container.Provide(func() (domain.TokenCounter, error) {
		return tokenizer.NewCounter()
	}); err != nil {
		log.Fatalf("Failed to provide tokenizer: %v", err)
	}

	// Provider Registry
	if err := container.Provide(func() domain.ProviderRegistry {
		return registry.NewRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// OpenAI Provider
	if err := container.Provide(func(cfg *openai.Config) (*openai.Provider, error) {
		if cfg.APIKey == "" {
			return nil, ErrProviderNotConfigured
		}

		return openai.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide OpenAI provider: %v", err)
	}

	// Pricing
	if err := container.Provide(func() domain.PricingRegistry {
		return domain.NewInMemoryPricingRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide pricing registry: %v", err)
	}

	// Register providers and pricing with registries (invoked for side effects)
	if err := container.Invoke(func(
		reg domain.ProviderRegistry,
		pricing domain.PricingRegistry,
		openaiProvider *openai.Provider,
	) error {
		ctx := context.Background()

		if err := reg.Register(ctx, extractive.NewProvider()); err != nil {
			return fmt.Errorf("failed to register extractive provider: %w", err)
		}

		// Register OpenAI if enabled
		if openaiProvider != nil {
			if err := reg.Register(ctx, openaiProvider); err != nil {
				return fmt.Errorf("failed to register OpenAI provider: %w", err)
			}
		}

		if err := openai.RegisterPricing(ctx, pricing); err != nil {
			return fmt.Errorf("failed to register OpenAI pricing: %w", err)
		}

		return nil
	}); err != nil {
		// Ignore ErrProviderNotConfigured as it's expected for optional providers
		if !errors.Is(err, ErrProviderNotConfigured) {
			log.Fatalf("Failed to register providers: %v", err)
		}

		// OpenAI is optional: register the rest without it.
		if invokeErr := container.Invoke(func(
			reg domain.ProviderRegistry,
			pricing domain.PricingRegistry,
			optCfg *config.OptimizerConfig,
		) error {
			ctx := context.Background()
			if err := reg.Register(ctx, extractive.NewProvider()); err != nil {
				return fmt.Errorf("failed to register extractive provider: %w", err)
			}

			// Without an API key the configured model has no provider
			// behind it. Route summaries and estimates to the extractive
			// model so every endpoint keeps working.
			if optCfg.Model != extractive.ModelName {
				log.Printf("OpenAI not configured, using model %s instead of %s", extractive.ModelName, optCfg.Model)
				optCfg.Model = extractive.ModelName
			}

			return openai.RegisterPricing(ctx, pricing)
		}); invokeErr != nil {
			log.Fatalf("Failed to register providers: %v", invokeErr)
		}
	}

	// Domain Services
	if err := container.Provide(func(reg domain.PricingRegistry) domain.CostCalculator {
		return domain.NewUsageCostCalculator(reg)
	}); err != nil {
		log.Fatalf("Failed to provide cost calculator: %v", err)
	}
	if err := container.Provide(func(
		counter domain.TokenCounter,
		pricing domain.PricingRegistry,
		cfg *config.OptimizerConfig,
	) *domain.CostEstimator {
		return domain.NewCostEstimator(counter, pricing, cfg.Model)
	}); err != nil {
		log.Fatalf("Failed to provide cost estimator: %v", err)
	}
	if err := container.Provide(func(
		reg domain.ProviderRegistry,
		costs domain.CostCalculator,
		cfg *config.OptimizerConfig,
	) *domain.SummaryService {
		return domain.NewSummaryService(reg, costs, cfg.Model)
	}); err != nil {
		log.Fatalf("Failed to provide summary service: %v", err)
	}
	if err := container.Provide(func(svc *domain.SummaryService) domain.Summarizer {
		return svc
	}); err != nil {
		log.Fatalf("Failed to provide summarizer: %v", err)
	}
	if err := container.Provide(func(
		counter domain.TokenCounter,
		estimator *domain.CostEstimator,
		summarizer domain.Summarizer,
		events domain.EventPublisher,
		cfg *config.OptimizerConfig,
	) *domain.Optimizer {
		return domain.NewOptimizer(counter, estimator, summarizer, events, cfg.SmartInputBudget)
	}); err != nil {
		log.Fatalf("Failed to provide optimizer: %v", err)
	}

	// Extraction
	if err := container.Provide(func(cfg *rediscache.Config) domain.DocumentCache {
		if cfg.Addr == "" {
			return nil
		}
		return rediscache.NewDocumentCache(rediscache.NewClient(*cfg))
	}); err != nil {
		log.Fatalf("Failed to provide document cache: %v", err)
	}
	if err := container.Provide(func(cfg *pdf.Config) domain.Extractor {
		return pdf.NewExtractor(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide extractor: %v", err)
	}
	if err := container.Provide(func(
		extractor domain.Extractor,
		cache domain.DocumentCache,
		cfg *config.OptimizerConfig,
	) *domain.ExtractService {
		return domain.NewExtractService(extractor, cache, time.Duration(cfg.CacheTTL)*time.Second)
	}); err != nil {
		log.Fatalf("Failed to provide extract service: %v", err)
	}

	// Related papers
	if err := container.Provide(func(cfg *related.Config) domain.RelatedFinder {
		return related.NewClient(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide related papers client: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(func(cfg *config.CORSConfig) httpmiddleware.Middleware {
		return httpmiddleware.BuildMiddlewareChain(cfg)
	}); err != nil {
		log.Fatalf("Failed to provide middleware: %v", err)
	}
	if err := container.Provide(httpserver.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(httpserver.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
