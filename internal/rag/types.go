package rag

import "strings"

// ChunkType tags the kind of content a chunk holds.
type ChunkType string

const (
	ChunkBodyText       ChunkType = "body_text"
	ChunkReproducible   ChunkType = "reproducible"
	ChunkTable          ChunkType = "table"
	ChunkList           ChunkType = "list"
	ChunkChapterSummary ChunkType = "chapter_summary"
	ChunkCallout        ChunkType = "callout"
	ChunkTitle          ChunkType = "title"
)

// ChunkTypes lists every valid ChunkType.
var ChunkTypes = []ChunkType{
	ChunkBodyText,
	ChunkReproducible,
	ChunkTable,
	ChunkList,
	ChunkChapterSummary,
	ChunkCallout,
	ChunkTitle,
}

var chunkTypeAliases = map[string]ChunkType{
	"body":      ChunkBodyText,
	"text":      ChunkBodyText,
	"worksheet": ChunkReproducible,
	"handout":   ChunkReproducible,
	"template":  ChunkReproducible,
	"summary":   ChunkChapterSummary,
	"sidebar":   ChunkCallout,
}

// ParseChunkType normalises s into a ChunkType. It accepts the canonical
// values in any case, with spaces or hyphens for underscores, plus a few synonyms.
func ParseChunkType(s string) (ChunkType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if norm == "" {
		return "", false
	}
	singular := strings.TrimSuffix(norm, "s")
	for _, ct := range ChunkTypes {
		if string(ct) == norm || string(ct) == singular {
			return ct, true
		}
	}
	if ct, ok := chunkTypeAliases[singular]; ok {
		return ct, true
	}
	return "", false
}

// SourceAttribution is a retrieved chunk projected for display and citation.
type SourceAttribution struct {
	// ChunkID is the vector store point ID.
	ChunkID string `json:"chunk_id"`
	// BookTitle is the title of the book the chunk came from.
	BookTitle string `json:"book_title"`
	// SKU is the stable book identifier.
	SKU     string   `json:"sku"`
	Authors []string `json:"authors,omitempty"`
	Chapter string   `json:"chapter,omitempty"`
	Section string   `json:"section,omitempty"`
	// Page is the 1-based page number.
	Page      int       `json:"page"`
	ChunkType ChunkType `json:"chunk_type"`
	// ReproducibleID is set for reproducible chunks, e.g. "4.3".
	ReproducibleID string `json:"reproducible_id,omitempty"`
	// Excerpt is the first 300 characters of the chunk text.
	Excerpt string `json:"excerpt"`
	// Score is the similarity score in [0, 1], higher is more relevant.
	Score float64 `json:"score"`
	// Text is the full chunk text, used for synthesis only.
	Text string `json:"-"`
}

// QueryFilter narrows retrieval. The zero value is the empty filter.
type QueryFilter struct {
	// BookTitles are title substrings; a chunk matches if any of them match.
	BookTitles []string `json:"book_titles,omitempty"`
	// Authors are author surnames.
	Authors []string `json:"authors,omitempty"`
	// ChunkType restricts results to one content type.
	ChunkType ChunkType `json:"chunk_type,omitempty"`
	// Chapter is a chapter reference as phrased in the query.
	Chapter string `json:"chapter,omitempty"`
}

// IsEmpty reports whether f constrains nothing.
func (f QueryFilter) IsEmpty() bool {
	return len(f.BookTitles) == 0 && len(f.Authors) == 0 && f.ChunkType == "" && f.Chapter == ""
}

// QueryRequest is a single question to resolve.
type QueryRequest struct {
	// Query is the user's question.
	Query string `json:"query"`
	// UseWeb asks for web context even when the books answer confidently.
	UseWeb bool `json:"use_web,omitempty"`
	// TopK overrides the configured number of sources. 0 uses the default.
	TopK int `json:"top_k,omitempty"`
	// Debug returns pipeline details with the result.
	Debug bool `json:"debug,omitempty"`
}

// QueryResult is the resolved answer.
type QueryResult struct {
	Answer string `json:"answer"`
	// Sources are ordered by descending score. Empty for cached answers.
	Sources []SourceAttribution `json:"sources"`
	// UsedWeb is true when web search context was appended to the answer.
	UsedWeb bool `json:"used_web"`
	// Cached is true when the answer came from the cache.
	Cached bool       `json:"cached"`
	Debug  *DebugInfo `json:"debug,omitempty"`
}

// RetrievalTrace records which retrieval branch ran.
type RetrievalTrace struct {
	PredicateApplied bool `json:"predicate_applied"`
	FilteredCount    int  `json:"filtered_count"`
	UnfilteredRetry  bool `json:"unfiltered_retry"`
}

// DebugInfo describes how a result was produced.
type DebugInfo struct {
	Filter    QueryFilter    `json:"filter"`
	Retrieval RetrievalTrace `json:"retrieval"`
	TopK      int            `json:"top_k"`
	BestScore float64        `json:"best_score"`
	// WebAttempted is true when the web provider was called.
	WebAttempted bool    `json:"web_attempted"`
	WebError     string  `json:"web_error,omitempty"`
	Timings      Timings `json:"timings_ms"`
}

// Timings holds per-stage latencies in milliseconds.
type Timings struct {
	Extract   int64 `json:"extract"`
	Retrieve  int64 `json:"retrieve"`
	Synthesis int64 `json:"synthesis"`
	Web       int64 `json:"web,omitempty"`
}
