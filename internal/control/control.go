// Package control implements the thin, store-composing operations
// behind the CLI's mutating and inspecting commands: enqueue, list,
// get, DLQ retry, clear, and config admin. None of them touch lease
// state directly; they call into store.Store the same way a worker's
// loop does.
package control

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/queuectl/queuectl/internal/queue"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/store"
)

// EnqueueRequest is the caller-supplied subset of a Job: MaxRetries is
// a pointer because its absence is meaningful (fall back to config),
// unlike job.Job's own int-valued field.
type EnqueueRequest struct {
	ID         string
	Command    string
	MaxRetries *int
}

// Enqueue validates id uniqueness, fills MaxRetries from config when
// absent, and inserts the job in state pending.
func Enqueue(ctx context.Context, st store.Store, req EnqueueRequest) (*job.Job, error) {
	if req.ID == "" || req.Command == "" {
		return nil, fmt.Errorf("%w: id and command are required", queue.ErrInputError)
	}

	cfg, err := st.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}

	maxRetries := cfg.MaxRetries
	if req.MaxRetries != nil {
		maxRetries = *req.MaxRetries
	}

	now := time.Now().UTC()
	j := &job.Job{
		ID:         req.ID,
		Command:    req.Command,
		State:      job.Pending,
		MaxRetries: maxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := st.Put(ctx, j, true); err != nil {
		if errors.Is(err, store.ErrExists) {
			return nil, fmt.Errorf("%w: job %q already exists", queue.ErrInputError, req.ID)
		}
		return nil, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}
	return j, nil
}

// List returns jobs, optionally filtered by state. job.Unknown means
// no filter.
func List(ctx context.Context, st store.Store, state job.State, limit int) ([]*job.Job, error) {
	jobs, err := st.ListByState(ctx, state, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}
	return jobs, nil
}

// Get fetches a single job by id, reporting a missing job as
// queue.ErrNotFound.
func Get(ctx context.Context, st store.Store, id string) (*job.Job, error) {
	j, err := st.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}
	if j == nil {
		return nil, fmt.Errorf("%w: job %q", queue.ErrNotFound, id)
	}
	return j, nil
}

// DLQRetry resets a dead job to pending. It fails with
// queue.ErrInputError if the job is not currently dead.
func DLQRetry(ctx context.Context, st store.Store, id string, resetAttempts bool) (*job.Job, error) {
	j, err := Get(ctx, st, id)
	if err != nil {
		return nil, err
	}
	if j.State != job.Dead {
		return nil, fmt.Errorf("%w: job %q is not in the dead letter queue", queue.ErrInputError, id)
	}

	j.State = job.Pending
	j.ErrorMessage = nil
	j.NextRetryAt = nil
	if resetAttempts {
		j.Attempts = 0
	}
	j.UpdatedAt = time.Now().UTC()

	if err := st.Update(ctx, j); err != nil {
		return nil, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}
	return j, nil
}

// Clear deletes jobs, optionally restricted to a single state.
// job.Unknown clears everything.
func Clear(ctx context.Context, st store.Store, state job.State) (int64, error) {
	n, err := st.DeleteByState(ctx, state)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}
	return n, nil
}

// configKeys is the set of kebab-case key names ConfigSet accepts,
// mirroring the original tool's config_set key table; the switch in
// ConfigSet maps each one onto the job.Config field it sets.
var configKeys = map[string]bool{
	"max-retries":          true,
	"backoff-base":         true,
	"worker-poll-interval": true,
	"job-timeout":          true,
}

// ConfigShow returns the current Config singleton.
func ConfigShow(ctx context.Context, st store.Store) (job.Config, error) {
	cfg, err := st.GetConfig(ctx)
	if err != nil {
		return job.Config{}, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}
	return cfg, nil
}

// ConfigSet applies a single key=value update to the Config singleton.
// Unknown keys and unparsable values are reported as queue.ErrInputError.
func ConfigSet(ctx context.Context, st store.Store, key, value string) (job.Config, error) {
	if !configKeys[key] {
		return job.Config{}, fmt.Errorf("%w: unknown config key %q", queue.ErrInputError, key)
	}

	cfg, err := st.GetConfig(ctx)
	if err != nil {
		return job.Config{}, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}

	switch key {
	case "max-retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return job.Config{}, fmt.Errorf("%w: max-retries must be an integer: %v", queue.ErrInputError, err)
		}
		cfg.MaxRetries = n
	case "backoff-base":
		n, err := strconv.Atoi(value)
		if err != nil {
			return job.Config{}, fmt.Errorf("%w: backoff-base must be an integer: %v", queue.ErrInputError, err)
		}
		cfg.BackoffBase = n
	case "worker-poll-interval":
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return job.Config{}, fmt.Errorf("%w: worker-poll-interval must be a number of seconds: %v", queue.ErrInputError, err)
		}
		cfg.WorkerPollInterval = time.Duration(seconds * float64(time.Second))
	case "job-timeout":
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return job.Config{}, fmt.Errorf("%w: job-timeout must be a number of seconds: %v", queue.ErrInputError, err)
		}
		cfg.JobTimeout = time.Duration(seconds * float64(time.Second))
	}

	if err := st.PutConfig(ctx, cfg); err != nil {
		return job.Config{}, fmt.Errorf("%w: %v", queue.ErrStore, err)
	}
	return cfg, nil
}
