package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"plc-kb/internal/rag"
	"plc-kb/internal/service"
	"plc-kb/internal/service/mocks"
	"plc-kb/internal/storage"
	storage_mocks "plc-kb/internal/storage/mocks"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestRouter(t *testing.T, apiKey string) (http.Handler, *mocks.MockQueryService, *mocks.MockIngestService, *storage_mocks.MockBookStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	queries := mocks.NewMockQueryService(ctrl)
	ingest := mocks.NewMockIngestService(ctrl)
	books := storage_mocks.NewMockBookStore(ctrl)

	router := NewRouter(&Deps{
		QueryService:  queries,
		IngestService: ingest,
		Books:         books,
		Qdrant:        okPinger{},
		APIKey:        apiKey,
	})
	return router, queries, ingest, books
}

func TestRouter_Routes(t *testing.T) {
	router, queries, ingest, books := newTestRouter(t, "")

	queries.EXPECT().Query(gomock.Any(), gomock.Any()).Return(rag.QueryResult{Answer: "ok"}, nil).AnyTimes()
	ingest.EXPECT().Start(gomock.Any(), false).Return(nil).AnyTimes()
	ingest.EXPECT().Running().Return(false).AnyTimes()
	ingest.EXPECT().Latest(gomock.Any()).Return(&storage.IngestRun{ID: 1}, nil).AnyTimes()
	books.EXPECT().ListAll(gomock.Any()).Return([]storage.Book{}, nil).AnyTimes()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"POST /query", http.MethodPost, "/api/v1/query", `{"query":"What is a PLC?"}`, http.StatusOK},
		{"GET /query not allowed", http.MethodGet, "/api/v1/query", "", http.StatusMethodNotAllowed},
		{"GET /health", http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{"POST /ingest", http.MethodPost, "/api/v1/ingest", "", http.StatusAccepted},
		{"GET /ingest/status", http.MethodGet, "/api/v1/ingest/status", "", http.StatusOK},
		{"GET /books", http.MethodGet, "/api/v1/books", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/ask", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	router, queries, _, _ := newTestRouter(t, "s3cret")
	queries.EXPECT().Query(gomock.Any(), gomock.Any()).Return(rag.QueryResult{Answer: "ok"}, nil).Times(1)

	body := `{"query":"What is a PLC?"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("without key status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewBufferString(body))
	req.Header.Set(APIKeyHeader, "s3cret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("with key status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("health without key status = %d, want 200", w.Code)
	}
}

func TestRouter_MissingCredentialsKeepHealthUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := NewRouter(&Deps{
		QueryService:  service.NewUnconfiguredQueryService(errors.New("OPENAI_API_KEY is required")),
		IngestService: mocks.NewMockIngestService(ctrl),
		Books:         storage_mocks.NewMockBookStore(ctrl),
		Qdrant:        okPinger{},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewBufferString(`{"query":"What is a PLC?"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("query status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "OPENAI_API_KEY is required") {
		t.Errorf("query body = %q, want the missing credential named", w.Body.String())
	}
}
