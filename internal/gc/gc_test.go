package gc_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/queuectl/queuectl/internal/gc"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/store"
)

func newStore(t *testing.T) *store.SQLStore {
	t.Helper()
	s, err := store.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestWorkerDeletesOldTerminalJobs(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	old := &job.Job{ID: "old", Command: "true", State: job.Completed}
	old.UpdatedAt = time.Now().Add(-time.Hour)
	if err := s.Put(ctx, old, true); err != nil {
		t.Fatal(err)
	}
	fresh := &job.Job{ID: "fresh", Command: "true", State: job.Completed}
	fresh.UpdatedAt = time.Now()
	if err := s.Put(ctx, fresh, true); err != nil {
		t.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := gc.New(s, gc.Config{State: job.Completed, Interval: 20 * time.Millisecond, After: time.Minute}, log)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop(time.Second)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := s.Get(ctx, "old")
		if err != nil {
			t.Fatal(err)
		}
		if got == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	got, err := s.Get(ctx, "old")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected old completed job to be swept")
	}

	still, err := s.Get(ctx, "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if still == nil {
		t.Fatal("expected fresh completed job to survive")
	}
}
