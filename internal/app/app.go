// Package app assembles the knowledge base services from configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"plc-kb/internal/cache"
	"plc-kb/internal/config"
	"plc-kb/internal/indexer"
	"plc-kb/internal/llm"
	"plc-kb/internal/rag"
	"plc-kb/internal/service"
	"plc-kb/internal/storage"
	"plc-kb/internal/vectorstore"
	"plc-kb/internal/websearch"
)

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Config *config.Config

	DB      *sql.DB
	Books   *storage.BookRepo
	Runs    *storage.IngestRunRepo
	Vectors *vectorstore.QdrantStore
	// Cache is nil when REDIS_URL is unset.
	Cache *cache.Cache

	Pipeline *indexer.Pipeline
	Queries  service.QueryService
	Ingest   service.IngestService
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// New opens storage, connects to Qdrant and Redis, and builds the query and
// ingestion services. Runs left in the running state by a previous process
// are marked interrupted. When cfg.Validate fails, Queries rejects every
// request with service.ErrNotConfigured instead of New failing.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = db
	if err := storage.Migrate(db); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	a.Books = storage.NewBookRepo(db)
	a.Runs = storage.NewIngestRunRepo(db)
	if n, err := a.Runs.MarkInterrupted(ctx); err != nil {
		slog.Warn("Failed to mark interrupted ingest runs", "error", err)
	} else if n > 0 {
		slog.Warn("Marked stale ingest runs as interrupted", "count", n)
	}

	a.Vectors, err = vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	if err := a.Vectors.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbedDimensions); err != nil {
		// Qdrant may come up after us; health reports it and ingest retries the call.
		slog.Warn("Qdrant collection not ready", "collection", cfg.QdrantCollection, "error", err)
	} else {
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.EmbedDimensions)
	}

	var queryCache service.QueryCache
	if cfg.RedisURL != "" {
		a.Cache, err = cache.New(cfg.RedisURL, cfg.CacheNamespace)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		queryCache = a.Cache
		slog.Info("Answer cache enabled", "namespace", cfg.CacheNamespace, "ttl", cfg.CacheTTL)
	} else {
		slog.Info("Answer cache disabled, REDIS_URL not set")
	}

	embedder := llm.NewEmbeddingsClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbedModel, cfg.EmbedDimensions)
	llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMModel)

	var synthesizer rag.Synthesizer = llmClient
	if cfg.LLMProvider == config.ProviderAnthropic {
		synthesizer = llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	slog.Info("Synthesis provider selected", "provider", cfg.LLMProvider, "model", cfg.SynthesisModel())

	web := websearch.NewClient(cfg.PerplexityAPIKey, cfg.PerplexityModel, websearch.WithBaseURL(cfg.PerplexityBaseURL))
	if !web.Configured() {
		slog.Info("Web fallback disabled, PERPLEXITY_API_KEY not set")
	}

	engine := rag.NewEngine(rag.Options{
		Extractor:    rag.NewFilterExtractor(llmClient, a.Books, cfg.FilterModel, cfg.FilterTimeout),
		Retriever:    rag.NewRetriever(embedder, a.Vectors, cfg.QdrantCollection, cfg.SearchTimeout),
		Synthesizer:  synthesizer,
		Web:          web,
		TopK:         cfg.SimilarityTopK,
		WebThreshold: cfg.WebScoreThreshold,
		SynthTimeout: cfg.SynthTimeout,
	})
	a.Queries = service.NewQueryService(engine, queryCache, service.QueryOptions{
		Model: cfg.SynthesisModel(),
		TopK:  cfg.SimilarityTopK,
		TTL:   cfg.CacheTTL,
	})
	if err := cfg.Validate(); err != nil {
		// Health and the catalogue stay up; queries report the missing credential.
		slog.Error("Query path disabled, configuration incomplete", "error", err)
		a.Queries = service.NewUnconfiguredQueryService(err)
	}

	a.Pipeline = indexer.NewPipeline(embedder, a.Vectors, a.Vectors, a.Books, a.Runs, indexer.Config{
		ProcessedDir: cfg.ProcessedDir,
		ManifestPath: cfg.ManifestPath,
		Collection:   cfg.QdrantCollection,
		VectorSize:   cfg.EmbedDimensions,
		EmbedModel:   cfg.EmbedModel,
	})
	a.Ingest = service.NewIngestService(a.Pipeline, a.Runs)

	return a, nil
}

// Close waits for a background ingest run and releases connections.
func (a *App) Close() error {
	if a.Ingest != nil {
		a.Ingest.Wait()
	}
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.Vectors != nil {
		errs = append(errs, a.Vectors.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
