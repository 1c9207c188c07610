package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"plc-kb/internal/contextutil"
	"plc-kb/internal/service"
	"plc-kb/internal/storage"
)

// IngestHandler handles HTTP requests for triggering ingestion.
type IngestHandler struct {
	ingest service.IngestService
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingest service.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

// IngestRequest is the optional body of POST /ingest.
type IngestRequest struct {
	// Force drops the collection and re-indexes every book
	Force bool `json:"force"`
}

// IngestResponse represents the response from the ingest endpoint.
type IngestResponse struct {
	Status string `json:"status"`
}

// IngestStatusResponse describes ingestion progress.
type IngestStatusResponse struct {
	Running bool               `json:"running"`
	LastRun *storage.IngestRun `json:"last_run,omitempty"`
}

// ServeHTTP starts a background ingestion run. The body is optional; force
// may also be given as ?force=true.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	force := req.Force || boolParam(r, "force")

	if err := h.ingest.Start(ctx, force); err != nil {
		if errors.Is(err, service.ErrIngestRunning) {
			writeError(ctx, w, http.StatusConflict, "Ingestion already in progress")
			return
		}
		logger.ErrorContext(ctx, "failed to start ingestion", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to start ingestion")
		return
	}

	logger.InfoContext(ctx, "ingestion triggered via API", "force", force)
	writeJSON(ctx, w, http.StatusAccepted, IngestResponse{Status: "ingestion_started"})
}

// Status reports whether a run is in progress and the last recorded run.
func (h *IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := IngestStatusResponse{Running: h.ingest.Running()}
	run, err := h.ingest.Latest(ctx)
	switch {
	case errors.Is(err, service.ErrNotFound):
	case err != nil:
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load ingest status", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to load ingest status")
		return
	default:
		resp.LastRun = run
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
