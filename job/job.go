package job

import "time"

// Job represents a unit of work managed by the queue.
//
// ID is client-supplied and unique across the store; enqueue fails if
// a job with the same ID already exists.
//
// Command is passed verbatim to the host shell by the worker's
// subprocess runner.
//
// Attempts counts execution attempts and is incremented before each
// one, including the one currently in flight.
//
// MaxRetries is the retry budget: once Attempts reaches MaxRetries
// after a failed attempt, the job transitions to Dead instead of
// Failed.
//
// NextRetryAt is set only while State is Failed, and cleared on every
// transition out of Failed.
//
// ErrorMessage holds the last failure's diagnostic text and is cleared
// on a successful attempt.
//
// LeaseOwner and LeaseExpiresAt implement the lease: LeaseOwner is set
// iff State is Processing, and LeaseExpiresAt bounds how long that
// lease is honored before the job becomes reclaimable.
type Job struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	State      State  `json:"state"`
	Attempts   int    `json:"attempts"`
	MaxRetries int    `json:"max_retries"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	NextRetryAt  *time.Time `json:"next_retry_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`

	LeaseOwner     *string    `json:"lease_owner,omitempty"`
	LeaseExpiresAt *time.Time `json:"lease_expires_at,omitempty"`
}

// Clone returns a copy of j that the caller may hold onto without it
// being invalidated by further store writes.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	if j.NextRetryAt != nil {
		t := *j.NextRetryAt
		c.NextRetryAt = &t
	}
	if j.ErrorMessage != nil {
		m := *j.ErrorMessage
		c.ErrorMessage = &m
	}
	if j.LeaseOwner != nil {
		o := *j.LeaseOwner
		c.LeaseOwner = &o
	}
	if j.LeaseExpiresAt != nil {
		t := *j.LeaseExpiresAt
		c.LeaseExpiresAt = &t
	}
	return &c
}
