// Package worker implements the single-job-at-a-time execution loop
// that lets one process lease, execute, classify, and persist jobs
// against a shared store.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/queuectl/queuectl/internal"
	"github.com/queuectl/queuectl/internal/runner"
	"github.com/queuectl/queuectl/internal/scheduler"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/store"
)

// LeaseGrace is added to job_timeout when computing lease_expires_at,
// so that a worker executing a legitimately long job is never
// preempted by kill/persist latency.
const LeaseGrace = 5 * time.Second

// Worker repeatedly leases one job from st, runs it to completion (or
// timeout), and persists the outcome, until Stop is called.
//
// Worker has a strict lifecycle: Start may only be called once; Stop
// lets the currently executing job finish before returning.
type Worker struct {
	internal.Base
	id    string
	store store.Store
	log   *slog.Logger

	stop chan struct{}
	done internal.DoneChan
}

// New creates a Worker with the given unique id, bound to store st.
// The worker is not started automatically.
func New(id string, st store.Store, log *slog.Logger) *Worker {
	return &Worker{id: id, store: st, log: log}
}

// Start begins the worker's loop in a background goroutine.
// Start returns ErrDoubleStarted if the worker was already started.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.TryStart(); err != nil {
		return err
	}
	w.stop = make(chan struct{})
	w.done = make(internal.DoneChan)
	go w.loop(ctx)
	return nil
}

// Stop requests graceful shutdown: the current attempt, if any, is
// allowed to finish and persist before the loop exits. Stop returns
// ErrStopTimeout if shutdown does not complete within timeout, and
// ErrDoubleStopped if the worker is not running.
func (w *Worker) Stop(timeout time.Duration) error {
	return w.TryStop(timeout, func() internal.DoneChan {
		close(w.stop)
		return w.done
	})
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		cfg, err := w.store.GetConfig(ctx)
		if err != nil {
			w.log.Error("reload config failed", "worker_id", w.id, "err", err)
			if w.sleepOrStop(ctx, time.Second) {
				return
			}
			continue
		}

		jb, err := w.store.AcquireNext(ctx, w.id, time.Now().UTC(), cfg.JobTimeout+LeaseGrace)
		if err != nil {
			w.log.Error("acquire next failed", "worker_id", w.id, "err", err)
			if w.sleepOrStop(ctx, cfg.WorkerPollInterval) {
				return
			}
			continue
		}
		if jb == nil {
			if w.sleepOrStop(ctx, cfg.WorkerPollInterval) {
				return
			}
			continue
		}

		// Execution runs under its own background context, bounded
		// only by cfg.JobTimeout inside runner.Run: a graceful stop
		// signal must let the current attempt finish and persist, not
		// tear down the subprocess or abort the outcome write.
		w.execute(context.Background(), jb, cfg)
	}
}

// sleepOrStop sleeps for d, or returns early (true) if the worker is
// asked to stop during the sleep.
func (w *Worker) sleepOrStop(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-w.stop:
		return true
	case <-ctx.Done():
		return true
	case <-timer.C:
		return false
	}
}

// execute runs jb's command, classifies the result via scheduler
// rules, and writes the post-attempt record back, clearing the lease
// in the same store call.
func (w *Worker) execute(ctx context.Context, jb *job.Job, cfg job.Config) {
	outcome := runner.Run(ctx, jb.Command, cfg.JobTimeout)
	now := time.Now().UTC()
	jb.UpdatedAt = now

	if outcome.Success {
		jb.State = job.Completed
		jb.ErrorMessage = nil
		jb.NextRetryAt = nil
	} else {
		msg := outcome.Message
		jb.ErrorMessage = &msg
		if scheduler.ClassifyFailure(jb.Attempts, jb.MaxRetries) {
			jb.State = job.Dead
			jb.NextRetryAt = nil
		} else {
			jb.State = job.Failed
			next := now.Add(scheduler.BackoffDelay(jb.Attempts, cfg.BackoffBase))
			jb.NextRetryAt = &next
		}
	}

	if err := w.store.Update(ctx, jb); err != nil {
		w.log.Error("persist outcome failed", "worker_id", w.id, "job_id", jb.ID, "err", err)
		// Update couldn't write the classified outcome, so the lease
		// this worker holds is left dangling in the store. Release it
		// explicitly rather than leaving the job stuck until the lease
		// expires on its own.
		if relErr := w.store.Release(ctx, jb.ID); relErr != nil {
			w.log.Error("lease release failed", "worker_id", w.id, "job_id", jb.ID, "err", relErr)
		}
	}
}
