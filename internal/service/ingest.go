package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingest_service.go -package=mocks plc-kb/internal/service IngestService

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"plc-kb/internal/contextutil"
	"plc-kb/internal/indexer"
	"plc-kb/internal/storage"
)

// IngestRunner executes one ingestion run.
type IngestRunner interface {
	Run(ctx context.Context, force bool) (indexer.Stats, error)
}

// IngestService starts background ingestion runs, one at a time.
type IngestService interface {
	// Start launches a run in the background. It returns ErrIngestRunning
	// when a run is already in progress.
	Start(ctx context.Context, force bool) error
	// Running reports whether a run is in progress.
	Running() bool
	// Latest returns the most recent recorded run, or ErrNotFound.
	Latest(ctx context.Context) (*storage.IngestRun, error)
	// Wait blocks until the current run, if any, has finished.
	Wait()
}

type ingestService struct {
	runner  IngestRunner
	runs    storage.IngestRunStore
	running atomic.Bool
	wg      sync.WaitGroup
}

// NewIngestService creates an IngestService.
func NewIngestService(runner IngestRunner, runs storage.IngestRunStore) IngestService {
	return &ingestService{runner: runner, runs: runs}
}

func (s *ingestService) Start(ctx context.Context, force bool) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrIngestRunning
	}

	// The run outlives the request, so it keeps only the request's values.
	runCtx := context.WithoutCancel(ctx)
	logger := contextutil.LoggerFromContext(runCtx)
	logger.InfoContext(runCtx, "ingestion started", "force", force)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		stats, err := s.runner.Run(runCtx, force)
		if err != nil {
			logger.ErrorContext(runCtx, "background ingestion failed", "error", err)
			return
		}
		logger.InfoContext(runCtx, "background ingestion finished",
			"nodes_indexed", stats.NodesIndexed, "nodes_skipped", stats.NodesSkipped)
	}()
	return nil
}

func (s *ingestService) Running() bool {
	return s.running.Load()
}

func (s *ingestService) Latest(ctx context.Context) (*storage.IngestRun, error) {
	run, err := s.runs.Latest(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, WrapError(err, "failed to load latest ingest run")
	}
	return run, nil
}

func (s *ingestService) Wait() {
	s.wg.Wait()
}
