package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_query_service.go -package=mocks plc-kb/internal/service QueryService

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"plc-kb/internal/cache"
	"plc-kb/internal/contextutil"
	"plc-kb/internal/rag"
)

// MaxQueryLength bounds the question length in characters.
const MaxQueryLength = 2000

// QueryCache stores answers by query fingerprint.
// This interface is defined from the service layer's perspective (consumer-first).
type QueryCache interface {
	Key(query, model string, topK int) string
	Get(ctx context.Context, key string) (cache.Entry, bool, error)
	Put(ctx context.Context, key string, entry cache.Entry, ttl time.Duration) error
}

// QueryService answers questions, serving repeats from the cache.
type QueryService interface {
	// Query validates req and resolves it, consulting the cache first.
	Query(ctx context.Context, req rag.QueryRequest) (rag.QueryResult, error)
}

// QueryOptions configures a QueryService.
type QueryOptions struct {
	// Model identifies the answer model in cache fingerprints.
	Model string
	// TopK is the default number of sources.
	TopK int
	// TTL is how long answers stay cached. 0 uses the cache default.
	TTL time.Duration
}

type queryService struct {
	engine rag.Engine
	cache  QueryCache
	model  string
	topK   int
	ttl    time.Duration
}

// NewQueryService creates a QueryService. c may be nil to run uncached.
func NewQueryService(engine rag.Engine, c QueryCache, opts QueryOptions) QueryService {
	topK := opts.TopK
	if topK <= 0 {
		topK = rag.DefaultTopK
	}
	return &queryService{
		engine: engine,
		cache:  c,
		model:  opts.Model,
		topK:   topK,
		ttl:    opts.TTL,
	}
}

type unconfiguredQueryService struct {
	reason error
}

// NewUnconfiguredQueryService returns a QueryService that rejects every query
// with ErrNotConfigured wrapping reason. The API server uses it when config
// validation fails so that health checks keep answering.
func NewUnconfiguredQueryService(reason error) QueryService {
	return &unconfiguredQueryService{reason: reason}
}

func (s *unconfiguredQueryService) Query(context.Context, rag.QueryRequest) (rag.QueryResult, error) {
	return rag.QueryResult{}, fmt.Errorf("%w: %w", ErrNotConfigured, s.reason)
}

// Query resolves req. Cache failures are logged and treated as misses.
func (s *queryService) Query(ctx context.Context, req rag.QueryRequest) (rag.QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Query = strings.TrimSpace(req.Query)
	if err := validate(req); err != nil {
		logger.WarnContext(ctx, "invalid query request", "error", err)
		return rag.QueryResult{}, err
	}
	if req.TopK == 0 {
		req.TopK = s.topK
	}

	// Forced web and debug answers are per-request, so they skip the cache.
	cacheable := s.cache != nil && !req.UseWeb && !req.Debug

	var key string
	if cacheable {
		key = s.cache.Key(req.Query, s.model, req.TopK)
		entry, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.WarnContext(ctx, "cache read failed, resolving uncached", "error", err)
		case ok:
			logger.InfoContext(ctx, "cache hit", "used_web", entry.UsedWeb)
			return rag.QueryResult{
				Answer:  entry.Answer,
				Sources: []rag.SourceAttribution{},
				UsedWeb: entry.UsedWeb,
				Cached:  true,
			}, nil
		}
	}

	result, err := s.engine.Resolve(ctx, req)
	if err != nil {
		return rag.QueryResult{}, WrapError(err, "failed to resolve query")
	}

	// A "not found" answer is not cached so that newly ingested books show up.
	if cacheable && len(result.Sources) > 0 {
		entry := cache.Entry{Answer: result.Answer, UsedWeb: result.UsedWeb}
		if err := s.cache.Put(ctx, key, entry, s.ttl); err != nil {
			logger.WarnContext(ctx, "cache write failed", "error", err)
		}
	}
	return result, nil
}

func validate(req rag.QueryRequest) error {
	if req.Query == "" {
		return &ValidationError{Field: "query", Message: "cannot be empty"}
	}
	if n := utf8.RuneCountInString(req.Query); n > MaxQueryLength {
		return &ValidationError{Field: "query", Message: fmt.Sprintf("must be at most %d characters, got %d", MaxQueryLength, n)}
	}
	if req.TopK < 0 || req.TopK > rag.MaxTopK {
		return &ValidationError{Field: "top_k", Message: fmt.Sprintf("must be between 1 and %d", rag.MaxTopK)}
	}
	return nil
}
