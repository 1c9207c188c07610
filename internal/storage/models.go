package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Book is a catalogue entry for an indexed book.
type Book struct {
	SKU        string    `json:"sku"`         // Lowercased stable identifier
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	ChunkCount int       `json:"chunk_count"` // Points written for this book
	IndexedAt  time.Time `json:"indexed_at"`
}

// Ingest run statuses.
const (
	RunRunning     = "running"
	RunSucceeded   = "succeeded"
	RunFailed      = "failed"
	RunInterrupted = "interrupted"
)

// IngestRun records one execution of the ingestion pipeline.
type IngestRun struct {
	ID           int64      `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"` // nil while running
	Status       string     `json:"status"`
	Force        bool       `json:"force"`
	NodesIndexed int        `json:"nodes_indexed"`
	NodesSkipped int        `json:"nodes_skipped"`
	Error        string     `json:"error,omitempty"`
}
