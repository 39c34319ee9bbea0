package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/queuectl/queuectl/job"
)

// Enqueuer durably inserts new jobs.
type Enqueuer interface {
	// Put upserts j. If requireAbsent is true and a job with the same
	// ID already exists, Put returns ErrExists and leaves the existing
	// record untouched.
	Put(ctx context.Context, j *job.Job, requireAbsent bool) error
}

// Leaser is the atomic lease contract at the heart of the queue's
// correctness surface: AcquireNext is the store's one hard
// requirement, and every worker-side invariant rests on it being
// atomic across concurrent callers.
type Leaser interface {
	// AcquireNext selects one eligible job (pending, or failed with an
	// elapsed next_retry_at, or processing with an expired lease) and
	// atomically transitions it to processing, owned by workerID until
	// now+lease. It returns (nil, nil) if nothing is eligible.
	AcquireNext(ctx context.Context, workerID string, now time.Time, lease time.Duration) (*job.Job, error)

	// Release clears lease_owner/lease_expires_at without touching
	// state. Idempotent.
	Release(ctx context.Context, id string) error
}

// Recorder persists the outcome of a completed attempt.
type Recorder interface {
	// Update writes j's current field values and, in the same
	// statement, clears its lease. The caller is expected to have
	// already computed the full post-attempt record (state, attempts,
	// error_message, next_retry_at) via the scheduler rules.
	Update(ctx context.Context, j *job.Job) error
}

// Observer provides read-only access to jobs. It never changes state.
type Observer interface {
	Get(ctx context.Context, id string) (*job.Job, error)
	ListAll(ctx context.Context, limit int) ([]*job.Job, error)
	ListByState(ctx context.Context, state job.State, limit int) ([]*job.Job, error)
	CountsByState(ctx context.Context) (map[job.State]int64, error)
}

// Deleter removes jobs from storage. Only DeleteOlderThan is restricted
// to terminal states; Delete, DeleteByState and DeleteAll remove jobs in
// any state, including a processing job with a live lease.
type Deleter interface {
	Delete(ctx context.Context, id string) error
	DeleteByState(ctx context.Context, state job.State) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, state job.State, before time.Time) (int64, error)
}

// ConfigStore persists the singleton configuration record.
type ConfigStore interface {
	GetConfig(ctx context.Context) (job.Config, error)
	PutConfig(ctx context.Context, cfg job.Config) error
}

// Store is the full persistence contract: durable job and config
// storage with atomic lease acquisition.
type Store interface {
	Enqueuer
	Leaser
	Recorder
	Observer
	Deleter
	ConfigStore
	Close() error
}

// SQLStore implements Store on top of a single-file SQLite database.
type SQLStore struct {
	db *bun.DB
}

// Open creates or opens the SQLite database at path, ensures the
// schema exists, and returns a ready-to-use Store.
//
// Open configures a single connection (SetMaxOpenConns(1)) in WAL mode
// with a busy_timeout pragma, which is what serializes writers for
// SQLite's single-writer model.
func Open(ctx context.Context, path string) (*SQLStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrapErr("open", err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, wrapErr("init schema", err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return wrapErr("close", s.db.Close())
}
