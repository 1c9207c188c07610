package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}

func TestIngestRunRepo_Lifecycle(t *testing.T) {
	repo := NewIngestRunRepo(newTestDB(t))
	repo.now = fixedClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := repo.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Latest() on empty table error = %v, want ErrNotFound", err)
	}

	id, err := repo.Start(ctx, true)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	run, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if run.ID != id || run.Status != RunRunning || !run.Force || run.FinishedAt != nil {
		t.Errorf("Latest() = %+v, want running forced run %d", run, id)
	}

	if err := repo.Finish(ctx, id, 120, 3, nil); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	run, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if run.Status != RunSucceeded {
		t.Errorf("Status = %q, want %q", run.Status, RunSucceeded)
	}
	if run.NodesIndexed != 120 || run.NodesSkipped != 3 {
		t.Errorf("counts = (%d, %d), want (120, 3)", run.NodesIndexed, run.NodesSkipped)
	}
	if run.FinishedAt == nil || !run.FinishedAt.After(run.StartedAt) {
		t.Errorf("FinishedAt = %v, want after %v", run.FinishedAt, run.StartedAt)
	}
}

func TestIngestRunRepo_FinishWithError(t *testing.T) {
	repo := NewIngestRunRepo(newTestDB(t))
	ctx := context.Background()

	id, err := repo.Start(ctx, false)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := repo.Finish(ctx, id, 10, 0, errors.New("nodes.json not found")); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	run, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if run.Status != RunFailed || run.Error != "nodes.json not found" {
		t.Errorf("Latest() = %+v, want failed run with error", run)
	}

	if err := repo.Finish(ctx, 9999, 0, 0, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Finish() unknown id error = %v, want ErrNotFound", err)
	}
}

func TestIngestRunRepo_MarkInterrupted(t *testing.T) {
	repo := NewIngestRunRepo(newTestDB(t))
	ctx := context.Background()

	done, err := repo.Start(ctx, false)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := repo.Finish(ctx, done, 1, 0, nil); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if _, err := repo.Start(ctx, false); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	n, err := repo.MarkInterrupted(ctx)
	if err != nil {
		t.Fatalf("MarkInterrupted() error = %v", err)
	}
	if n != 1 {
		t.Errorf("MarkInterrupted() = %d, want 1", n)
	}

	run, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if run.Status != RunInterrupted || run.FinishedAt == nil {
		t.Errorf("Latest() = %+v, want interrupted run", run)
	}
}
