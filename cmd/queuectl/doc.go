// Command queuectl is a local, persistent background job queue with a
// command-line control plane.
//
// # Overview
//
// Users submit shell-command jobs with queuectl enqueue; long-lived
// worker processes (queuectl worker start) lease jobs from a shared
// SQLite-backed store, execute them as subprocesses under a timeout,
// and either mark them complete or schedule a retry with exponential
// backoff. Jobs that exhaust their retry budget land in the dead
// letter queue for inspection, manual retry, or purge.
//
// # Core subsystems
//
//   - job/store — durable job and config persistence with atomic
//     lease acquisition (package job, package store)
//   - internal/scheduler — pure retry-scheduling rules: backoff delay
//     and retry-vs-dead classification
//   - internal/worker — the per-process execution loop: lease,
//     execute, classify, persist
//   - internal/runner — subprocess execution with wall-clock timeout
//     and process-group cleanup
//   - internal/gc — the optional retention janitor
//   - internal/supervisor — worker process spawn/signal/liveness
//   - internal/control — enqueue/list/get/DLQ/clear/config operations
//     shared by the CLI
//
// # Delivery semantics
//
// queuectl provides at-least-once delivery. A job may run more than
// once if a worker crashes mid-execution: its lease expires and the
// next acquire_next call reclaims it. There is no per-job
// cancellation, no distributed operation across hosts, and no
// exactly-once guarantee.
//
// # Lease model
//
// A job transitions from pending to processing when a worker acquires
// it; the worker holds an exclusive lease identified by a worker id
// and an expiry timestamp. Lease expiry, not an explicit release call,
// is the sole crash-recovery mechanism: a worker killed mid-job leaves
// a stale lease that the next acquire_next call naturally reclaims.
//
// The store's atomic AcquireNext is the only coordination point
// between concurrently running workers; everything else in the system
// composes over it.
package main
