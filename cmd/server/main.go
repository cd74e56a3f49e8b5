// Command server is the engine's HTTP entrypoint, grounded on
// cmd/api/main.go's wiring order: load configuration, construct every
// dependency bottom-up, start the HTTP server, and shut down gracefully
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danja/semem-go/application/commands"
	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/application/queries"
	"github.com/danja/semem-go/application/services"
	domainsvc "github.com/danja/semem-go/domain/services"
	"github.com/danja/semem-go/infrastructure/config"
	"github.com/danja/semem-go/infrastructure/observability"
	"github.com/danja/semem-go/infrastructure/persistence/cache"
	"github.com/danja/semem-go/infrastructure/persistence/jsonstore"
	"github.com/danja/semem-go/infrastructure/persistence/memory"
	"github.com/danja/semem-go/infrastructure/persistence/sparql"
	"github.com/danja/semem-go/infrastructure/persistence/vectorindex"
	"github.com/danja/semem-go/infrastructure/providers/anyllm"
	"github.com/danja/semem-go/infrastructure/providers/hashfallback"
	"github.com/danja/semem-go/infrastructure/providers/openai"
	"github.com/danja/semem-go/infrastructure/providers/research"
	"github.com/danja/semem-go/interfaces/http/rest"
	"github.com/danja/semem-go/interfaces/http/rest/handlers"
	"github.com/danja/semem-go/pkg/resilience"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	tracerProvider, err := observability.InitTracing("semem-go", cfg.Environment, cfg.Observability.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer tracerProvider.Shutdown(ctx)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	graphStore, err := buildGraphStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build graph store", zap.Error(err))
	}

	chatProvider, embeddingProvider, err := buildProviders(cfg)
	if err != nil {
		logger.Fatal("failed to build providers", zap.Error(err))
	}

	providerRegistry := services.NewProviderRegistry([]services.ProviderEntry{
		{
			Type:      cfg.Models.Chat.Provider,
			Priority:  0,
			Chat:      chatProvider,
			Embedding: embeddingProvider,
			Capabilities: map[ports.ProviderCapability]bool{
				ports.CapabilityChat:      true,
				ports.CapabilityEmbedding: true,
			},
		},
	}, logger)
	providerRegistry.OnFallback(func(capability string) {
		metrics.RecordProviderFallback(capability)
	})

	embeddingBreaker := resilience.New(resilience.DefaultConfig("embedding-provider"), logger)
	embeddingService, err := services.NewEmbeddingService(embeddingProvider, embeddingBreaker, cfg.Memory.Dimension)
	if err != nil {
		logger.Fatal("failed to build embedding service", zap.Error(err))
	}

	conceptExtractor := services.NewConceptExtractor(chatProvider, logger)

	var vectorIndex ports.VectorIndex
	if idx, err := vectorindex.New(); err != nil {
		logger.Warn("vector index unavailable, retrieveRelevant will scan both tiers directly", zap.Error(err))
	} else {
		vectorIndex = idx
	}

	queryCache := cache.NewQueryCache(cfg.Cache.MaxSize, time.Duration(cfg.Cache.DefaultTTLMs)*time.Millisecond)
	debouncer := cache.NewDebouncer()
	memoryDataCache := cache.NewMemoryDataCache()

	similarityCalculator := domainsvc.NewCompositeSimilarityCalculator(domainsvc.Weights{
		Alpha:     0.6,
		Beta:      0.25,
		Gamma:     0.15,
		DecayRate: cfg.Memory.DecayRate,
	}, nil)

	memoryStore := services.NewMemoryStore(
		graphStore,
		vectorIndex,
		queryCache,
		debouncer,
		memoryDataCache,
		time.Duration(cfg.Cache.DataTimeoutMs)*time.Millisecond,
		similarityCalculator,
		services.MemoryStoreConfig{
			ShortTermCapacity:   cfg.Memory.ShortTermCapacity,
			SimilarityThreshold: cfg.Memory.SimilarityThreshold,
			PromotionThreshold:  cfg.Memory.PromotionThreshold,
			DecayRate:           cfg.Memory.DecayRate,
			DebounceDelay:       time.Duration(cfg.Cache.DebounceDelayMs) * time.Millisecond,
		},
		logger,
	)

	queryBuilder := sparql.NewBuilder(cfg.Graphs.Content)
	navigator := services.NewZPTNavigator(graphStore, queryCache, queryBuilder, services.NavigatorConfig{
		Endpoint:      cfg.Storage.Options.Query,
		QueryCacheTTL: time.Duration(cfg.Cache.DefaultTTLMs) * time.Millisecond,
	}, logger)

	iterationStore := memory.NewIterationStore()
	researchCollaborator := research.New(chatProvider, conceptExtractor)
	iterationController := services.NewIterationController(chatProvider, researchCollaborator, graphStore, iterationStore, logger)

	tellHandler := commands.NewTellHandler(embeddingService, conceptExtractor, memoryStore, graphStore, logger)
	augmentHandler := commands.NewAugmentHandler(conceptExtractor, embeddingService, graphStore, logger)
	iterateHandler := commands.NewIterateHandler(iterationController)
	askHandler := queries.NewAskHandler(embeddingService, memoryStore, chatProvider, cfg.Memory.ContextWindow, logger)
	navigateHandler := queries.NewNavigateHandler(navigator, logger)

	ops := handlers.New(tellHandler, augmentHandler, iterateHandler, askHandler, navigateHandler, memoryStore, logger)
	router := rest.NewRouter(ops, logger)

	mux := http.NewServeMux()
	mux.Handle("/", router.Setup())
	if cfg.Observability.EnableMetrics {
		mux.Handle("/metrics", observability.Handler(registry))
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepStop := startSessionSweeper(navigator, 5*time.Minute)
	defer close(sweepStop)

	decayStop := startDecayTicker(memoryStore, time.Minute)
	defer close(decayStop)

	go func() {
		logger.Info("starting server", zap.String("address", cfg.ServerAddress), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	log.Println("server stopped")
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// buildGraphStore selects the persistence backend by storage.type (§6).
func buildGraphStore(cfg *config.Config, logger *zap.Logger) (ports.GraphStore, error) {
	switch cfg.Storage.Type {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageJSON:
		return jsonstore.New(jsonstore.DefaultPath(cfg.Storage.Options.JSONPath))
	case config.StorageSPARQL, config.StorageCachedSPARQL:
		breaker := resilience.New(resilience.DefaultConfig("sparql-endpoint"), logger)
		client := sparql.New(sparql.Config{
			QueryURL:  cfg.Storage.Options.Query,
			UpdateURL: cfg.Storage.Options.Update,
			User:      cfg.Storage.Options.User,
			Password:  cfg.Storage.Options.Password,
			Timeout:   30 * time.Second,
		}, breaker)
		return sparql.NewGraphStore(client, cfg.Graphs.Content, cfg.Graphs.Navigation, cfg.Graphs.Session), nil
	default:
		return memory.New(), nil
	}
}

// buildProviders constructs the configured chat and embedding providers,
// falling back to the deterministic hash embedding provider when no
// embedding provider is configured (§4.A's ingest-time contract: an
// unavailable embedding provider must never block startup).
func buildProviders(cfg *config.Config) (ports.ChatProvider, ports.EmbeddingProvider, error) {
	chat, err := anyllm.New(cfg.Models.Chat.Provider, cfg.Models.Chat.Model, providerAPIKey(cfg, cfg.Models.Chat.Provider), providerBaseURL(cfg, cfg.Models.Chat.Provider))
	if err != nil {
		return nil, nil, err
	}

	if cfg.Models.Embedding.Provider == "openai" {
		apiKey := providerAPIKey(cfg, "openai")
		if apiKey != "" {
			return chat, openai.New(apiKey, cfg.Models.Embedding.Model, cfg.Memory.Dimension, providerBaseURL(cfg, "openai")), nil
		}
	}
	return chat, hashfallback.New(cfg.Memory.Dimension), nil
}

func providerAPIKey(cfg *config.Config, providerType string) string {
	for _, p := range cfg.Providers {
		if p.Type == providerType {
			return p.APIKey
		}
	}
	return ""
}

func providerBaseURL(cfg *config.Config, providerType string) string {
	for _, p := range cfg.Providers {
		if p.Type == providerType {
			return p.BaseURL
		}
	}
	return ""
}

// startSessionSweeper periodically drops idle navigation sessions past
// their configured timeout (§4.F "active -> expired -> sweep()").
func startSessionSweeper(navigator *services.ZPTNavigator, interval time.Duration) chan struct{} {
	stop := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				navigator.SweepExpired()
			case <-stop:
				return
			}
		}
	}()
	return stop
}

// startDecayTicker periodically applies access-count decay across both
// memory tiers (§4.E "decay runs periodically"), mirroring
// startSessionSweeper's shape.
func startDecayTicker(memory *services.MemoryStore, interval time.Duration) chan struct{} {
	stop := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				memory.Decay(interval)
			case <-stop:
				return
			}
		}
	}()
	return stop
}
