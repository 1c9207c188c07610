package rag

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"plc-kb/internal/contextutil"
	"plc-kb/internal/vectorstore"
)

const (
	// minFilteredResults is the smallest filtered result set kept before
	// retrying the search without the predicate.
	minFilteredResults = 3

	excerptLength        = 300
	defaultSearchTimeout = 10 * time.Second
)

// Payload keys written by the indexer.
const (
	FieldText           = "text"
	FieldBookTitle      = "book_title"
	FieldSKU            = "sku"
	FieldAuthors        = "authors"
	FieldChapter        = "chapter"
	FieldSection        = "section"
	FieldPage           = "page_number"
	FieldChunkType      = "chunk_type"
	FieldReproducibleID = "reproducible_id"
)

// Retriever runs similarity search with the filtered-then-unfiltered policy.
type Retriever struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
	timeout    time.Duration
}

// NewRetriever creates a retriever over collection.
func NewRetriever(embedder Embedder, store vectorstore.VectorStore, collection string, timeout time.Duration) *Retriever {
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	return &Retriever{
		embedder:   embedder,
		store:      store,
		collection: collection,
		timeout:    timeout,
	}
}

// BuildPredicate translates a filter into a store predicate. Book titles are
// OR-combined and AND-ed with the chunk type. Authors and chapter have no
// payload index and are not translated. The empty filter gives nil.
func BuildPredicate(filter QueryFilter) *vectorstore.Predicate {
	pred := &vectorstore.Predicate{}
	for _, title := range filter.BookTitles {
		pred.Should = append(pred.Should, vectorstore.Condition{
			Field: FieldBookTitle,
			Value: title,
			Kind:  vectorstore.MatchText,
		})
	}
	if filter.ChunkType != "" {
		pred.Must = append(pred.Must, vectorstore.Condition{
			Field: FieldChunkType,
			Value: string(filter.ChunkType),
			Kind:  vectorstore.MatchKeyword,
		})
	}
	if pred.IsEmpty() {
		return nil
	}
	return pred
}

// Retrieve returns up to topK sources for query in descending score order.
func (r *Retriever) Retrieve(ctx context.Context, query string, filter QueryFilter, topK int) ([]SourceAttribution, RetrievalTrace, error) {
	logger := contextutil.LoggerFromContext(ctx)
	var trace RetrievalTrace

	vec, err := r.embed(ctx, query)
	if err != nil {
		return nil, trace, err
	}

	pred := BuildPredicate(filter)
	if len(filter.Authors) > 0 || filter.Chapter != "" {
		logger.DebugContext(ctx, "filter fields not applied to search", "authors", filter.Authors, "chapter", filter.Chapter)
	}
	if pred != nil {
		trace.PredicateApplied = true

		results, err := r.search(ctx, vec, topK, pred)
		if err != nil {
			// A rejected predicate is treated like an empty result so the
			// unfiltered search still gets a chance.
			logger.WarnContext(ctx, "filtered search failed", "error", err)
			results = nil
		}
		trace.FilteredCount = len(results)

		if len(results) >= minFilteredResults {
			logger.InfoContext(ctx, "filtered search completed", "results_count", len(results))
			return toSources(results), trace, nil
		}

		logger.InfoContext(ctx, "too few filtered results, retrying unfiltered",
			"results_count", len(results),
			"minimum", minFilteredResults,
		)
		trace.UnfilteredRetry = true
	}

	if err := ctx.Err(); err != nil {
		return nil, trace, err
	}

	results, err := r.search(ctx, vec, topK, nil)
	if err != nil {
		return nil, trace, err
	}
	logger.InfoContext(ctx, "search completed", "results_count", len(results), "k_requested", topK)
	return toSources(results), trace, nil
}

func (r *Retriever) embed(ctx context.Context, query string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("failed to embed query: empty vector")
	}
	return vec, nil
}

func (r *Retriever) search(ctx context.Context, vec []float32, k int, pred *vectorstore.Predicate) ([]vectorstore.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	results, err := r.store.Search(ctx, r.collection, vec, k, pred)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}
	return results, nil
}

func toSources(results []vectorstore.SearchResult) []SourceAttribution {
	sources := make([]SourceAttribution, 0, len(results))
	for _, res := range results {
		sources = append(sources, sourceFromResult(res))
	}
	return sources
}

func sourceFromResult(res vectorstore.SearchResult) SourceAttribution {
	text := metaString(res.Meta, FieldText)
	return SourceAttribution{
		ChunkID:        res.PointID,
		BookTitle:      metaString(res.Meta, FieldBookTitle),
		SKU:            metaString(res.Meta, FieldSKU),
		Authors:        metaStrings(res.Meta, FieldAuthors),
		Chapter:        metaString(res.Meta, FieldChapter),
		Section:        metaString(res.Meta, FieldSection),
		Page:           metaInt(res.Meta, FieldPage),
		ChunkType:      ChunkType(metaString(res.Meta, FieldChunkType)),
		ReproducibleID: metaString(res.Meta, FieldReproducibleID),
		Excerpt:        excerpt(text, excerptLength),
		Score:          clampScore(float64(res.Score)),
		Text:           text,
	}
}

// excerpt returns the first n runes of s.
func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}

func metaString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func metaStrings(meta map[string]any, key string) []string {
	switch v := meta[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return nil
	}
}

func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	default:
		return 0
	}
}
