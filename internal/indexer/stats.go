package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"
)

const (
	// NormalizerVersion identifies the node normalisation rules.
	// Bump it when Normalize changes what gets embedded.
	NormalizerVersion = "v1.0"
	// TokensPerRune is an approximation for token counting (4 chars per token).
	TokensPerRune = 4.0
)

// Stats summarises one ingestion run.
type Stats struct {
	// NodesLoaded is the number of nodes read from nodes.json.
	NodesLoaded int `json:"nodes_loaded"`
	// NodesIndexed is the number of nodes embedded and upserted.
	NodesIndexed int `json:"nodes_indexed"`
	// NodesSkipped counts nodes that were invalid or belonged to an already indexed book.
	NodesSkipped int `json:"nodes_skipped"`
	// SkipReasons breaks NodesSkipped down by reason.
	SkipReasons map[string]int `json:"skip_reasons,omitempty"`
	// BooksIndexed lists the SKUs written in this run.
	BooksIndexed []string `json:"books_indexed"`
	// BooksSkipped lists the SKUs left alone because they were already indexed.
	BooksSkipped []string `json:"books_skipped,omitempty"`
	// TokenStats describes the estimated size of the indexed chunks.
	TokenStats ChunkTokenStats `json:"token_stats"`
	// IndexVersion is a hash of the normaliser version and embedding settings.
	IndexVersion string `json:"index_version"`
}

func newStats() Stats {
	return Stats{
		SkipReasons:  make(map[string]int),
		BooksIndexed: []string{},
	}
}

func (s *Stats) skip(reason string) {
	s.NodesSkipped++
	s.SkipReasons[reason]++
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// estimateTokens approximates the token count of text, never less than 1.
func estimateTokens(text string) int {
	n := int(math.Round(float64(utf8.RuneCountInString(text)) / TokensPerRune))
	if n < 1 {
		return 1
	}
	return n
}

// IndexVersion identifies an index build by normaliser and embedding settings.
func IndexVersion(embedModel string, dimensions int) string {
	input := fmt.Sprintf("%s|%s|dims=%d", NormalizerVersion, embedModel, dimensions)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range tokenCounts {
		sum += count
	}
	mean := float64(sum) / float64(len(tokenCounts))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
