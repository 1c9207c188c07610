package service

import (
	"errors"
	"fmt"

	"plc-kb/internal/rag"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrIngestRunning is returned when an ingestion run is already in progress.
	ErrIngestRunning = errors.New("ingestion already running")
	// ErrNotConfigured is returned by the query path when required credentials are missing.
	ErrNotConfigured = errors.New("query service not configured")

	// ErrRetrieval is returned when the vector store or embedder fails.
	ErrRetrieval = rag.ErrRetrieval
	// ErrSynthesis is returned when the answer model fails.
	ErrSynthesis = rag.ErrSynthesis
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
