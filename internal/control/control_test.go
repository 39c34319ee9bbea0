package control_test

import (
	"context"
	"errors"
	"testing"

	"github.com/queuectl/queuectl/internal/control"
	"github.com/queuectl/queuectl/internal/queue"
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

func TestEnqueueFillsMaxRetriesFromConfig(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	j, err := control.Enqueue(ctx, s, control.EnqueueRequest{ID: "j1", Command: "echo hi"})
	if err != nil {
		t.Fatal(err)
	}
	if j.MaxRetries != 3 {
		t.Fatalf("expected default max retries 3, got %d", j.MaxRetries)
	}
	if j.State != job.Pending {
		t.Fatalf("expected pending, got %v", j.State)
	}
}

func TestEnqueueDuplicateRejected(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := control.Enqueue(ctx, s, control.EnqueueRequest{ID: "j1", Command: "echo hi"}); err != nil {
		t.Fatal(err)
	}
	_, err := control.Enqueue(ctx, s, control.EnqueueRequest{ID: "j1", Command: "echo bye"})
	if !errors.Is(err, queue.ErrInputError) {
		t.Fatalf("expected ErrInputError, got %v", err)
	}

	got, _ := s.Get(ctx, "j1")
	if got.Command != "echo hi" {
		t.Fatalf("duplicate enqueue mutated existing record: %q", got.Command)
	}
}

func TestGetMissingIsNotFound(t *testing.T) {
	s := newStore(t)
	_, err := control.Get(context.Background(), s, "nope")
	if !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDLQRetryRequiresDeadState(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	if _, err := control.Enqueue(ctx, s, control.EnqueueRequest{ID: "j1", Command: "echo hi"}); err != nil {
		t.Fatal(err)
	}

	_, err := control.DLQRetry(ctx, s, "j1", false)
	if !errors.Is(err, queue.ErrInputError) {
		t.Fatalf("expected ErrInputError for non-dead job, got %v", err)
	}
}

func TestDLQRetryResetsAttempts(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	errMsg := "boom"
	j := &job.Job{
		ID: "j1", Command: "false", State: job.Dead, Attempts: 3, MaxRetries: 3,
		ErrorMessage: &errMsg,
	}
	j.CreatedAt = j.UpdatedAt
	if err := s.Put(ctx, j, true); err != nil {
		t.Fatal(err)
	}

	got, err := control.DLQRetry(ctx, s, "j1", true)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Pending || got.Attempts != 0 || got.ErrorMessage != nil {
		t.Fatalf("unexpected post-retry state: %+v", got)
	}
}

func TestClearByState(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	if _, err := control.Enqueue(ctx, s, control.EnqueueRequest{ID: "j1", Command: "echo hi"}); err != nil {
		t.Fatal(err)
	}

	n, err := control.Clear(ctx, s, job.Pending)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 cleared, got %d", n)
	}
}

func TestConfigSetUnknownKey(t *testing.T) {
	s := newStore(t)
	_, err := control.ConfigSet(context.Background(), s, "bogus", "1")
	if !errors.Is(err, queue.ErrInputError) {
		t.Fatalf("expected ErrInputError, got %v", err)
	}
}

func TestConfigSetMaxRetries(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	cfg, err := control.ConfigSet(ctx, s, "max-retries", "10")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxRetries != 10 {
		t.Fatalf("expected 10, got %d", cfg.MaxRetries)
	}
}
