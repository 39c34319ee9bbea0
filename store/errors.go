package store

import "errors"

var (
	// ErrExists is returned by Put when the caller required the job to
	// be absent (enqueue uniqueness) and a record with the same ID
	// already exists.
	ErrExists = errors.New("store: job already exists")

	// ErrNotFound is returned by operations that require an existing
	// job (Update, Delete-by-id) when no record matches.
	ErrNotFound = errors.New("store: job not found")

	// ErrBadState is returned by DeleteOlderThan when asked to target a
	// non-terminal state.
	ErrBadState = errors.New("store: state is not terminal")
)

// Error wraps an underlying storage failure. Every operation that
// fails for a reason other than ErrExists/ErrNotFound/ErrBadState
// returns an *Error, so callers can treat storage failures uniformly
// as spec'd: "a single kind of storage error."
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
