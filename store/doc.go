// Package store provides the durable job and config persistence layer,
// backed by SQLite via github.com/uptrace/bun.
//
// # Overview
//
// Store is the sole piece of shared mutable state in the system: every
// worker process and every CLI invocation goes through it, and it is
// the only coordination point between concurrent workers. It provides:
//
//   - durable persistence of jobs and the singleton config record
//   - atomic lease acquisition via AcquireNext
//   - state-indexed lookup for listing, counting and DLQ admin
//
// # Concurrency Model
//
// AcquireNext is implemented as a single atomic UPDATE statement over
// a subquery selecting the best eligible candidate, so two concurrent
// callers can never be handed the same job while its prior lease is
// still live. SQLite connections are capped at one (SetMaxOpenConns(1))
// with WAL mode and a busy_timeout pragma, serializing writers the way
// a single-writer embedded database requires.
//
// # Schema
//
// initSchema creates the jobs table, the config table (seeded with
// defaults on first run) and three indexes:
//
//   - (state, next_retry_at)  — retry eligibility
//   - (state, lease_expires_at) — lease reclamation
//   - (state, updated_at)     — listing and retention cleanup
//
// Schema creation is idempotent and runs inside a single transaction.
//
// # Limitations
//
// Leases are implemented with a status + timestamp pair, not lease
// tokens or optimistic-locking versions. Exactly-once execution is not
// provided; delivery remains at-least-once, per the system's contract.
package store
