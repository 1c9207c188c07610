package vectorstore

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestGRPCAddress(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
		wantTLS  bool
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://qdrant:9000",
			wantHost: "qdrant",
			wantPort: 9001,
		},
		{
			name:     "https cloud URL",
			urlStr:   "https://abc.cloud.qdrant.io:6333",
			wantHost: "abc.cloud.qdrant.io",
			wantPort: 6334,
			wantTLS:  true,
		},
		{
			name:    "invalid URL",
			urlStr:  "://invalid",
			wantErr: true,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost",
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, useTLS, err := grpcAddress(tt.urlStr)
			if tt.wantErr {
				if err == nil {
					t.Error("grpcAddress() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("grpcAddress() unexpected error: %v", err)
			}
			if host != tt.wantHost {
				t.Errorf("Host = %v, want %v", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("Port = %v, want %v", port, tt.wantPort)
			}
			if useTLS != tt.wantTLS {
				t.Errorf("UseTLS = %v, want %v", useTLS, tt.wantTLS)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	_, err := NewQdrantStore("://invalid", "")
	if err == nil {
		t.Error("NewQdrantStore() with invalid URL should return error")
	}
}

func TestPredicate_IsEmpty(t *testing.T) {
	var nilPred *Predicate
	if !nilPred.IsEmpty() {
		t.Error("nil predicate should be empty")
	}
	if !(&Predicate{}).IsEmpty() {
		t.Error("zero predicate should be empty")
	}
	if (&Predicate{Must: []Condition{{Field: "chunk_type", Value: "table"}}}).IsEmpty() {
		t.Error("predicate with a Must condition should not be empty")
	}
}

func TestToQdrantFilter(t *testing.T) {
	t.Run("empty predicate yields no filter", func(t *testing.T) {
		if f := toQdrantFilter(nil); f != nil {
			t.Errorf("toQdrantFilter(nil) = %v, want nil", f)
		}
		if f := toQdrantFilter(&Predicate{}); f != nil {
			t.Errorf("toQdrantFilter(empty) = %v, want nil", f)
		}
	})

	t.Run("titles in should and type in must", func(t *testing.T) {
		f := toQdrantFilter(&Predicate{
			Should: []Condition{
				{Field: "book_title", Value: "Learning by Doing", Kind: MatchText},
				{Field: "book_title", Value: "Taking Action", Kind: MatchText},
			},
			Must: []Condition{
				{Field: "chunk_type", Value: "reproducible", Kind: MatchKeyword},
			},
		})
		if f == nil {
			t.Fatal("toQdrantFilter() returned nil")
		}
		if len(f.Should) != 2 {
			t.Fatalf("Should len = %d, want 2", len(f.Should))
		}
		if len(f.Must) != 1 {
			t.Fatalf("Must len = %d, want 1", len(f.Must))
		}

		title := f.Should[0].GetField()
		if title.GetKey() != "book_title" || title.GetMatch().GetText() != "Learning by Doing" {
			t.Errorf("Should[0] = %v, want text match on book_title", title)
		}
		kind := f.Must[0].GetField()
		if kind.GetKey() != "chunk_type" || kind.GetMatch().GetKeyword() != "reproducible" {
			t.Errorf("Must[0] = %v, want keyword match on chunk_type", kind)
		}
	})
}

func TestQdrantStore_Upsert_EmptyPoints(t *testing.T) {
	store := &QdrantStore{}

	err := store.Upsert(context.Background(), "test-collection", []Point{})
	if err != nil {
		t.Errorf("Upsert() with empty points should return early without error, got: %v", err)
	}
}

func TestQdrantStore_Delete_EmptyIDs(t *testing.T) {
	store := &QdrantStore{}

	err := store.Delete(context.Background(), "test-collection", []string{})
	if err != nil {
		t.Errorf("Delete() with empty IDs should return early without error, got: %v", err)
	}
}

func TestQdrantStore_Search_InvalidK(t *testing.T) {
	store := &QdrantStore{}

	ctx := context.Background()
	if _, err := store.Search(ctx, "test-collection", []float32{1.0, 2.0}, 0, nil); err == nil {
		t.Error("Search() with k=0 should return error")
	}
	if _, err := store.Search(ctx, "test-collection", []float32{1.0, 2.0}, -1, nil); err == nil {
		t.Error("Search() with k=-1 should return error")
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	result := convertPayloadToMap(nil)
	if result == nil || len(result) != 0 {
		t.Errorf("convertPayloadToMap(nil) = %v, want empty map", result)
	}

	payload := qdrant.NewValueMap(map[string]any{
		"sku":         "bkf219",
		"page_number": 12,
		"authors":     []any{"Richard DuFour", "Rebecca DuFour"},
	})
	result = convertPayloadToMap(payload)
	if result["sku"] != "bkf219" {
		t.Errorf("sku = %v, want bkf219", result["sku"])
	}
	if result["page_number"] != int64(12) {
		t.Errorf("page_number = %v (%T), want int64 12", result["page_number"], result["page_number"])
	}
	authors, ok := result["authors"].([]any)
	if !ok || len(authors) != 2 || authors[0] != "Richard DuFour" {
		t.Errorf("authors = %v, want two names", result["authors"])
	}
}
