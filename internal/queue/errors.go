// Package queue defines the error taxonomy shared by every
// user-facing entry point (CLI commands, control operations): a
// closed set of sentinels that the CLI boundary maps to exit codes,
// independent of what the store or runner happen to return.
package queue

import "errors"

var (
	// ErrInputError marks a problem with what the caller asked for:
	// malformed input, an unknown config key, an invalid state filter,
	// a duplicate job id, or a non-dead job targeted by dlq retry.
	ErrInputError = errors.New("invalid input")

	// ErrNotFound marks a lookup (get, dlq retry, ...) against an id
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStore wraps any failure of the persistence layer surfaced to
	// a caller above the store boundary.
	ErrStore = errors.New("store error")
)
