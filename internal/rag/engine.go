package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"plc-kb/internal/contextutil"
)

const (
	// WebMarker separates the book answer from appended web context.
	WebMarker = "\n\n[WEB] Additional context from web search:\n"

	// NoResultsAnswer is returned when the index holds nothing relevant.
	NoResultsAnswer = "I couldn't find any relevant information in the indexed books to answer this question."

	DefaultTopK = 5
	MaxTopK     = 20

	defaultSynthTimeout = 60 * time.Second
)

var (
	// ErrEmptyQuery is returned for a blank question.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrRetrieval wraps embedding and vector search failures.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrSynthesis wraps answer generation failures.
	ErrSynthesis = errors.New("answer synthesis failed")
)

// Engine resolves questions against the book index.
type Engine interface {
	// Resolve answers req from retrieved book excerpts, adding web context when retrieval is weak.
	Resolve(ctx context.Context, req QueryRequest) (QueryResult, error)
}

// Options holds the collaborators of an Engine.
type Options struct {
	// Extractor narrows retrieval. Nil searches unfiltered.
	Extractor   *FilterExtractor
	Retriever   *Retriever
	Synthesizer Synthesizer
	// Web is optional; nil or unconfigured disables the web fallback.
	Web WebSearcher

	TopK int
	// WebThreshold is used as given. 0 disables the low-confidence fallback;
	// callers wanting the usual gate pass DefaultWebScoreThreshold.
	WebThreshold float64
	SynthTimeout time.Duration
}

type ragEngine struct {
	extractor    *FilterExtractor
	retriever    *Retriever
	synthesizer  Synthesizer
	web          WebSearcher
	topK         int
	webThreshold float64
	synthTimeout time.Duration
}

// NewEngine creates a new query engine.
func NewEngine(opts Options) Engine {
	e := &ragEngine{
		extractor:    opts.Extractor,
		retriever:    opts.Retriever,
		synthesizer:  opts.Synthesizer,
		web:          opts.Web,
		topK:         opts.TopK,
		webThreshold: opts.WebThreshold,
		synthTimeout: opts.SynthTimeout,
	}
	if e.topK <= 0 {
		e.topK = DefaultTopK
	}
	if e.synthTimeout <= 0 {
		e.synthTimeout = defaultSynthTimeout
	}
	return e
}

// Resolve runs extraction, retrieval, synthesis and the web fallback in sequence.
func (e *ragEngine) Resolve(ctx context.Context, req QueryRequest) (QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return QueryResult{}, ErrEmptyQuery
	}
	topK := e.resolveTopK(req.TopK)

	logger.InfoContext(ctx, "query started", "query_length", len(query), "top_k", topK, "use_web", req.UseWeb)

	var debug DebugInfo
	debug.TopK = topK

	// Filter extraction
	start := time.Now()
	var filter QueryFilter
	if e.extractor != nil {
		filter = e.extractor.Extract(ctx, query)
	}
	debug.Filter = filter
	debug.Timings.Extract = time.Since(start).Milliseconds()

	if err := ctx.Err(); err != nil {
		return QueryResult{}, err
	}

	// Retrieval
	start = time.Now()
	sources, trace, err := e.retriever.Retrieve(ctx, query, filter, topK)
	debug.Timings.Retrieve = time.Since(start).Milliseconds()
	debug.Retrieval = trace
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return QueryResult{}, ctxErr
		}
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return QueryResult{}, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	if len(sources) == 0 {
		logger.InfoContext(ctx, "no sources found")
		return e.finish(req, QueryResult{Answer: NoResultsAnswer, Sources: []SourceAttribution{}}, debug), nil
	}

	best, _ := BestScore(sources)
	debug.BestScore = best

	if err := ctx.Err(); err != nil {
		return QueryResult{}, err
	}

	// Synthesis
	start = time.Now()
	answer, err := e.synthesize(ctx, query, sources)
	debug.Timings.Synthesis = time.Since(start).Milliseconds()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return QueryResult{}, ctxErr
		}
		logger.ErrorContext(ctx, "synthesis failed", "error", err)
		return QueryResult{}, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	result := QueryResult{Answer: answer, Sources: sources}

	// Web fallback
	webConfigured := e.web != nil && e.web.Configured()
	lowConfidence := ShouldUseWeb(sources, e.webThreshold, webConfigured)
	if lowConfidence || (req.UseWeb && webConfigured) {
		debug.WebAttempted = true
		logger.InfoContext(ctx, "fetching web context", "best_score", best, "threshold", e.webThreshold, "forced", req.UseWeb && !lowConfidence)

		start = time.Now()
		webText, err := e.web.Search(ctx, query)
		debug.Timings.Web = time.Since(start).Milliseconds()

		if ctxErr := ctx.Err(); ctxErr != nil {
			return QueryResult{}, ctxErr
		}
		switch {
		case err != nil:
			logger.WarnContext(ctx, "web fallback failed, returning book answer", "error", err)
			debug.WebError = err.Error()
		case strings.TrimSpace(webText) == "":
			logger.WarnContext(ctx, "web fallback returned nothing")
			debug.WebError = "empty web answer"
		default:
			result.Answer += WebMarker + webText
			result.UsedWeb = true
		}
	}

	logger.InfoContext(ctx, "query completed",
		"sources", len(sources),
		"best_score", best,
		"used_web", result.UsedWeb,
		"answer_length", len(result.Answer),
	)
	return e.finish(req, result, debug), nil
}

func (e *ragEngine) synthesize(ctx context.Context, query string, sources []SourceAttribution) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.synthTimeout)
	defer cancel()

	answer, err := e.synthesizer.Complete(ctx, synthesisSystemPrompt, buildPrompt(query, sources))
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errors.New("empty answer")
	}
	return answer, nil
}

func (e *ragEngine) resolveTopK(k int) int {
	switch {
	case k <= 0:
		return e.topK
	case k > MaxTopK:
		return MaxTopK
	default:
		return k
	}
}

func (e *ragEngine) finish(req QueryRequest, result QueryResult, debug DebugInfo) QueryResult {
	if req.Debug {
		result.Debug = &debug
	}
	return result
}
