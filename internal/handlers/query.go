package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"plc-kb/internal/contextutil"
	"plc-kb/internal/rag"
	"plc-kb/internal/service"
)

// QueryHandler handles HTTP requests for book questions.
type QueryHandler struct {
	queries service.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queries service.QueryService) *QueryHandler {
	return &QueryHandler{queries: queries}
}

// QueryRequest represents the HTTP request payload for a question.
//
// swagger:model QueryRequest
type QueryRequest struct {
	// The question to answer
	Query string `json:"query"`
	// Force web search context even when the books answer confidently
	UseWeb bool `json:"use_web"`
	// Number of sources to retrieve (1-20, default from configuration)
	TopK int `json:"top_k,omitempty"`
	// Include pipeline details in the response
	Debug bool `json:"debug,omitempty"`
}

// QueryResponse represents the HTTP response payload for a question.
//
// swagger:model QueryResponse
type QueryResponse struct {
	// The generated answer, with web context appended when used
	Answer string `json:"answer"`
	// Book chunks the answer was grounded on, best first. Empty for cached answers.
	Sources []rag.SourceAttribution `json:"sources"`
	// Whether web search context was appended
	UsedWeb bool `json:"used_web"`
	// Whether the answer came from the cache
	Cached bool `json:"cached"`
	// Pipeline details, present only when requested
	Debug *rag.DebugInfo `json:"debug,omitempty"`
}

// ServeHTTP handles HTTP requests for book questions.
//
// swagger:route POST /api/v1/query queryBooks
//
// # Ask a question about the indexed books
//
// Answers from the indexed PLC books, citing book, SKU, and page. Low
// confidence answers are supplemented with web search when configured.
// Use `debug=true` in the body or query string for pipeline details.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Answer with sources
//	  schema:
//	    "$ref": "#/definitions/QueryResponse"
//	'400':
//	  description: Invalid query or top_k
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Answer model unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'503':
//	  description: Vector store or embeddings unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.queries.Query(ctx, rag.QueryRequest{
		Query:  req.Query,
		UseWeb: req.UseWeb,
		TopK:   req.TopK,
		Debug:  req.Debug || boolParam(r, "debug"),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	sources := result.Sources
	if sources == nil {
		sources = []rag.SourceAttribution{}
	}
	writeJSON(ctx, w, http.StatusOK, QueryResponse{
		Answer:  result.Answer,
		Sources: sources,
		UsedWeb: result.UsedWeb,
		Cached:  result.Cached,
		Debug:   result.Debug,
	})
}

// handleError maps service errors to HTTP status codes.
func (h *QueryHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		logger.WarnContext(ctx, "query rejected", "field", vErr.Field, "error", vErr.Message)
		writeError(ctx, w, http.StatusBadRequest, vErr.Field+" "+vErr.Message)
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, rag.ErrEmptyQuery):
		writeError(ctx, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotConfigured):
		logger.ErrorContext(ctx, "query path not configured", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, service.ErrRetrieval):
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		writeError(ctx, w, http.StatusServiceUnavailable, "Knowledge base unavailable")
	case errors.Is(err, service.ErrSynthesis):
		logger.ErrorContext(ctx, "synthesis failed", "error", err)
		writeError(ctx, w, http.StatusBadGateway, "Answer model unavailable")
	default:
		logger.ErrorContext(ctx, "query failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to process query")
	}
}
