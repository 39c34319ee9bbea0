// Package gc implements the optional retention janitor: a background
// task that periodically purges terminal jobs older than a configured
// age. It is not part of the core lease/retry correctness surface —
// disabling it changes nothing about job execution.
package gc

import (
	"context"
	"log/slog"
	"time"

	"github.com/queuectl/queuectl/internal"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/store"
)

// Config controls what the janitor deletes and how often.
//
// State restricts deletion to a single terminal state; job.Unknown
// targets both completed and dead jobs.
//
// After is the minimum age (based on updated_at) a job must have
// reached before it is eligible for deletion.
type Config struct {
	State    job.State
	Interval time.Duration
	After    time.Duration
}

// Worker periodically calls Store.DeleteOlderThan according to Config.
//
// Worker has the same strict start/stop lifecycle as worker.Worker:
// Start may only be called once, and Stop waits for the in-flight
// sweep to finish or the timeout to expire.
type Worker struct {
	internal.Base
	store store.Store
	log   *slog.Logger
	cfg   Config
	task  internal.TimerTask
}

// New creates a Worker. It is not started automatically.
func New(st store.Store, cfg Config, log *slog.Logger) *Worker {
	return &Worker{store: st, log: log, cfg: cfg}
}

func (w *Worker) sweep(ctx context.Context) {
	before := time.Now().UTC().Add(-w.cfg.After)
	n, err := w.store.DeleteOlderThan(ctx, w.cfg.State, before)
	if err != nil {
		w.log.Error("retention sweep failed", "err", err)
		return
	}
	if n > 0 {
		w.log.Info("retention sweep deleted jobs", "count", n)
	}
}

// Start begins periodic sweeping. Start returns ErrDoubleStarted if
// already started.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.TryStart(); err != nil {
		return err
	}
	w.task.Start(ctx, w.sweep, w.cfg.Interval)
	return nil
}

// Stop terminates the background sweep task, waiting up to timeout.
func (w *Worker) Stop(timeout time.Duration) error {
	return w.TryStop(timeout, w.task.Stop)
}
