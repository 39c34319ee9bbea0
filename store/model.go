package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/job"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID         string    `bun:"id,pk"`
	Command    string    `bun:"command,notnull"`
	State      job.State `bun:"state,notnull"`
	Attempts   int       `bun:"attempts,notnull,default:0"`
	MaxRetries int       `bun:"max_retries,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	NextRetryAt  *time.Time `bun:"next_retry_at,nullzero,default:null"`
	ErrorMessage *string    `bun:"error_message,nullzero,default:null"`

	LeaseOwner     *string    `bun:"lease_owner,nullzero,default:null"`
	LeaseExpiresAt *time.Time `bun:"lease_expires_at,nullzero,default:null"`
}

func (m *jobModel) toJob() *job.Job {
	return &job.Job{
		ID:             m.ID,
		Command:        m.Command,
		State:          m.State,
		Attempts:       m.Attempts,
		MaxRetries:     m.MaxRetries,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
		NextRetryAt:    utcPtr(m.NextRetryAt),
		ErrorMessage:   m.ErrorMessage,
		LeaseOwner:     m.LeaseOwner,
		LeaseExpiresAt: utcPtr(m.LeaseExpiresAt),
	}
}

// utcPtr normalizes an optional timestamp to UTC without mutating the
// caller's value, so every emitted timestamp round-trips as RFC3339
// with a Z suffix regardless of what the driver returns it in.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func fromJob(j *job.Job) *jobModel {
	return &jobModel{
		ID:             j.ID,
		Command:        j.Command,
		State:          j.State,
		Attempts:       j.Attempts,
		MaxRetries:     j.MaxRetries,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
		NextRetryAt:    j.NextRetryAt,
		ErrorMessage:   j.ErrorMessage,
		LeaseOwner:     j.LeaseOwner,
		LeaseExpiresAt: j.LeaseExpiresAt,
	}
}

const configRowID = 1

type configModel struct {
	bun.BaseModel `bun:"table:config,alias:c"`

	ID                   int   `bun:"id,pk"`
	MaxRetries           int   `bun:"max_retries,notnull"`
	BackoffBase          int   `bun:"backoff_base,notnull"`
	WorkerPollIntervalMS int64 `bun:"worker_poll_interval_ms,notnull"`
	JobTimeoutMS         int64 `bun:"job_timeout_ms,notnull"`
}

func (m *configModel) toConfig() job.Config {
	return job.Config{
		MaxRetries:         m.MaxRetries,
		BackoffBase:        m.BackoffBase,
		WorkerPollInterval: time.Duration(m.WorkerPollIntervalMS) * time.Millisecond,
		JobTimeout:         time.Duration(m.JobTimeoutMS) * time.Millisecond,
	}
}

func fromConfig(c job.Config) *configModel {
	return &configModel{
		ID:                   configRowID,
		MaxRetries:           c.MaxRetries,
		BackoffBase:          c.BackoffBase,
		WorkerPollIntervalMS: c.WorkerPollInterval.Milliseconds(),
		JobTimeoutMS:         c.JobTimeout.Milliseconds(),
	}
}
