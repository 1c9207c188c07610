package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"plc-kb/internal/handlers"
	"plc-kb/internal/service"
	"plc-kb/internal/storage"
)

const (
	apiPrefix  = "/api/v1"
	healthPath = apiPrefix + "/health"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QueryService  service.QueryService
	IngestService service.IngestService
	Books         storage.BookStore
	// Qdrant and Redis back the health check. Redis is nil when caching is off.
	Qdrant handlers.Pinger
	Redis  handlers.Pinger
	// APIKey enables X-API-Key auth when non-empty.
	APIKey string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(APIKeyAuth(deps.APIKey))

	queryHandler := handlers.NewQueryHandler(deps.QueryService)
	healthHandler := handlers.NewHealthHandler(deps.Qdrant, deps.Redis)
	ingestHandler := handlers.NewIngestHandler(deps.IngestService)
	booksHandler := handlers.NewBooksHandler(deps.Books)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/ingest", ingestHandler)
		r.Get("/ingest/status", ingestHandler.Status)
		r.Method(http.MethodGet, "/books", booksHandler)
	})

	return r
}
