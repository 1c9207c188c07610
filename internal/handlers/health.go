package handlers

import (
	"context"
	"net/http"
	"time"

	"plc-kb/internal/contextutil"
)

// Pinger checks that a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	qdrant             Pinger
	redis              Pinger
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// cache is disabled, which reports redis_ok=false.
func NewHealthHandler(qdrant, redis Pinger) *HealthHandler {
	return &HealthHandler{
		qdrant:             qdrant,
		redis:              redis,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// "ok" when the vector store is reachable, otherwise "degraded"
	Status   string `json:"status"`
	QdrantOK bool   `json:"qdrant_ok"`
	RedisOK  bool   `json:"redis_ok"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// swagger:route GET /api/v1/health healthCheck
//
// # Health check endpoint
//
// Always answers 200 so that health checks can read the dependency flags.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		QdrantOK: h.check(checkCtx, "qdrant", h.qdrant),
		RedisOK:  h.check(checkCtx, "redis", h.redis),
	}
	resp.Status = "ok"
	if !resp.QdrantOK {
		resp.Status = "degraded"
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *HealthHandler) check(ctx context.Context, name string, p Pinger) bool {
	if p == nil {
		return false
	}
	if err := p.Ping(ctx); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "health check failed", "dependency", name, "error", err)
		return false
	}
	return true
}
