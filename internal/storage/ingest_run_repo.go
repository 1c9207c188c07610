package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingest_run_store.go -package=mocks plc-kb/internal/storage IngestRunStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// IngestRunStore defines the interface for ingest run bookkeeping.
type IngestRunStore interface {
	// Start records a new running ingest and returns its ID.
	Start(ctx context.Context, force bool) (int64, error)
	// Finish marks a run as succeeded, or failed when runErr is non-nil.
	Finish(ctx context.Context, id int64, indexed, skipped int, runErr error) error
	// Latest returns the most recent run. Returns ErrNotFound if none exist.
	Latest(ctx context.Context) (*IngestRun, error)
	// MarkInterrupted marks runs left running by a previous process. It returns the number updated.
	MarkInterrupted(ctx context.Context) (int64, error)
}

// IngestRunRepo provides methods for ingest run operations.
// It implements the IngestRunStore interface.
type IngestRunRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewIngestRunRepo creates a new IngestRunRepo.
func NewIngestRunRepo(db *sql.DB) *IngestRunRepo {
	return &IngestRunRepo{db: db, now: time.Now}
}

// Start records a new running ingest and returns its ID.
func (r *IngestRunRepo) Start(ctx context.Context, force bool) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO ingest_runs (started_at, status, force) VALUES (?, ?, ?)",
		formatTime(r.now()), RunRunning, force,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert ingest run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get ingest run ID: %w", err)
	}
	return id, nil
}

// Finish marks a run as succeeded, or failed when runErr is non-nil.
func (r *IngestRunRepo) Finish(ctx context.Context, id int64, indexed, skipped int, runErr error) error {
	status, msg := RunSucceeded, ""
	if runErr != nil {
		status, msg = RunFailed, runErr.Error()
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE ingest_runs
		SET finished_at = ?, status = ?, nodes_indexed = ?, nodes_skipped = ?, error = ?
		WHERE id = ?`,
		formatTime(r.now()), status, indexed, skipped, msg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update ingest run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update ingest run: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Latest returns the most recent run. Returns ErrNotFound if none exist.
func (r *IngestRunRepo) Latest(ctx context.Context) (*IngestRun, error) {
	var (
		run        IngestRun
		startedAt  string
		finishedAt sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, status, force, nodes_indexed, nodes_skipped, error
		FROM ingest_runs ORDER BY id DESC LIMIT 1`,
	).Scan(&run.ID, &startedAt, &finishedAt, &run.Status, &run.Force, &run.NodesIndexed, &run.NodesSkipped, &run.Error)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest run: %w", err)
	}

	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if finishedAt.Valid {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		run.FinishedAt = &t
	}
	return &run, nil
}

// MarkInterrupted marks runs left running by a previous process.
func (r *IngestRunRepo) MarkInterrupted(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE ingest_runs SET status = ?, finished_at = ? WHERE status = ?",
		RunInterrupted, formatTime(r.now()), RunRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark interrupted runs: %w", err)
	}
	return result.RowsAffected()
}
