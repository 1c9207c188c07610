package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks plc-kb/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// MatchKind selects how a Condition compares a payload field.
type MatchKind int

const (
	// MatchKeyword is exact equality on a keyword field.
	MatchKeyword MatchKind = iota
	// MatchText is full-text containment on a text-indexed field.
	MatchText
)

// Condition is a single payload constraint.
type Condition struct {
	Field string
	Value string
	Kind  MatchKind
}

// Predicate is a metadata filter applied during search.
// At least one Should condition must hold (when any are given) and every Must condition must hold.
type Predicate struct {
	Should []Condition
	Must   []Condition
}

// IsEmpty reports whether the predicate constrains nothing.
func (p *Predicate) IsEmpty() bool {
	return p == nil || (len(p.Should) == 0 && len(p.Must) == 0)
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search, constrained by pred when it is non-empty.
	// Results are ordered by descending score.
	Search(ctx context.Context, collection string, query []float32, k int, pred *Predicate) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error
}
