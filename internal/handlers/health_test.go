package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name   string
		qdrant Pinger
		redis  Pinger
		want   HealthResponse
	}{
		{
			name:   "all healthy",
			qdrant: stubPinger{},
			redis:  stubPinger{},
			want:   HealthResponse{Status: "ok", QdrantOK: true, RedisOK: true},
		},
		{
			name:   "cache disabled",
			qdrant: stubPinger{},
			redis:  nil,
			want:   HealthResponse{Status: "ok", QdrantOK: true, RedisOK: false},
		},
		{
			name:   "redis down is still ok",
			qdrant: stubPinger{},
			redis:  stubPinger{err: down},
			want:   HealthResponse{Status: "ok", QdrantOK: true, RedisOK: false},
		},
		{
			name:   "qdrant down is degraded",
			qdrant: stubPinger{err: down},
			redis:  stubPinger{},
			want:   HealthResponse{Status: "degraded", QdrantOK: false, RedisOK: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.qdrant, tt.redis)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
			var got HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if got != tt.want {
				t.Errorf("response = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	handler := NewHealthHandler(stubPinger{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
