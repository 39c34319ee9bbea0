package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/job"
)

// Put upserts j. See Enqueuer.
func (s *SQLStore) Put(ctx context.Context, j *job.Job, requireAbsent bool) error {
	q := s.db.NewInsert().Model(fromJob(j))
	if requireAbsent {
		q = q.On("CONFLICT (id) DO NOTHING")
	} else {
		q = q.On("CONFLICT (id) DO UPDATE").
			Set("command = EXCLUDED.command").
			Set("state = EXCLUDED.state").
			Set("attempts = EXCLUDED.attempts").
			Set("max_retries = EXCLUDED.max_retries").
			Set("updated_at = EXCLUDED.updated_at").
			Set("next_retry_at = EXCLUDED.next_retry_at").
			Set("error_message = EXCLUDED.error_message").
			Set("lease_owner = EXCLUDED.lease_owner").
			Set("lease_expires_at = EXCLUDED.lease_expires_at")
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return wrapErr("put", err)
	}
	if requireAbsent && !isAffected(res) {
		return ErrExists
	}
	return nil
}

// eligibleSubquery selects the id of the single best candidate for
// acquisition: pending, or failed with an elapsed next_retry_at, or
// processing with an expired lease (the crash-recovery path), with no
// live lease, ordered FIFO by created_at then id.
//
// spec.md's selection policy (step 1) names only pending/failed-ready
// jobs as candidates, but its own crash-recovery narrative (and S5)
// requires a processing job with an expired lease to be reclaimable
// too; this query implements the unified rule (see DESIGN.md).
func eligibleSubquery(db *bun.DB, now time.Time) *bun.SelectQuery {
	return db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state IN (?, ?, ?)", job.Pending, job.Processing, job.Failed).
		Where("(state <> ? OR next_retry_at <= ?)", job.Failed, now).
		Where("(lease_owner IS NULL OR lease_expires_at <= ?)", now).
		Order("created_at ASC", "id ASC").
		Limit(1)
}

// AcquireNext implements Leaser.
func (s *SQLStore) AcquireNext(ctx context.Context, workerID string, now time.Time, lease time.Duration) (*job.Job, error) {
	leaseExpires := now.Add(lease)
	var models []*jobModel
	err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Processing).
		Set("attempts = attempts + 1").
		Set("lease_owner = ?", workerID).
		Set("lease_expires_at = ?", leaseExpires).
		Set("updated_at = ?", now).
		Where("id IN (?)", eligibleSubquery(s.db, now)).
		Returning("*").
		Scan(ctx, &models)
	if err != nil {
		return nil, wrapErr("acquire next", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].toJob(), nil
}

// Release implements Leaser. Idempotent: clearing an already-clear
// lease is not an error.
func (s *SQLStore) Release(ctx context.Context, id string) error {
	_, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("lease_owner = NULL").
		Set("lease_expires_at = NULL").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return wrapErr("release", err)
	}
	return nil
}

// Update implements Recorder. It writes the full post-attempt record
// and clears the lease in the same statement.
func (s *SQLStore) Update(ctx context.Context, j *job.Job) error {
	res, err := s.db.NewUpdate().
		Model(fromJob(j)).
		Column("command", "state", "attempts", "max_retries", "updated_at",
			"next_retry_at", "error_message").
		Set("lease_owner = NULL").
		Set("lease_expires_at = NULL").
		WherePK().
		Exec(ctx)
	if err != nil {
		return wrapErr("update", err)
	}
	if !isAffected(res) {
		return ErrNotFound
	}
	return nil
}

// Get implements Observer.
func (s *SQLStore) Get(ctx context.Context, id string) (*job.Job, error) {
	var m jobModel
	err := s.db.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get", err)
	}
	return m.toJob(), nil
}

// ListAll implements Observer.
func (s *SQLStore) ListAll(ctx context.Context, limit int) ([]*job.Job, error) {
	return s.list(ctx, job.Unknown, limit)
}

// ListByState implements Observer.
func (s *SQLStore) ListByState(ctx context.Context, state job.State, limit int) ([]*job.Job, error) {
	return s.list(ctx, state, limit)
}

func (s *SQLStore) list(ctx context.Context, state job.State, limit int) ([]*job.Job, error) {
	var models []*jobModel
	q := s.db.NewSelect().Model(&models).Order("created_at ASC", "id ASC")
	if state != job.Unknown {
		q = q.Where("state = ?", state)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, wrapErr("list", err)
	}
	ret := make([]*job.Job, len(models))
	for i, m := range models {
		ret[i] = m.toJob()
	}
	return ret, nil
}

// CountsByState implements Observer.
func (s *SQLStore) CountsByState(ctx context.Context) (map[job.State]int64, error) {
	var rows []struct {
		State job.State `bun:"state"`
		Count int64      `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state, count(*) AS count").
		Group("state").
		Scan(ctx, &rows)
	if err != nil {
		return nil, wrapErr("counts by state", err)
	}
	ret := make(map[job.State]int64, len(rows))
	for _, r := range rows {
		ret[r.State] = r.Count
	}
	return ret, nil
}

// Delete implements Deleter.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*jobModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return wrapErr("delete", err)
	}
	if !isAffected(res) {
		return ErrNotFound
	}
	return nil
}

// DeleteByState implements Deleter.
func (s *SQLStore) DeleteByState(ctx context.Context, state job.State) (int64, error) {
	q := s.db.NewDelete().Model((*jobModel)(nil))
	if state == job.Unknown {
		q = q.Where("1 = 1")
	} else {
		q = q.Where("state = ?", state)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, wrapErr("delete by state", err)
	}
	return getAffected(res), nil
}

// DeleteAll implements Deleter.
func (s *SQLStore) DeleteAll(ctx context.Context) (int64, error) {
	return s.DeleteByState(ctx, job.Unknown)
}

// DeleteOlderThan implements Deleter. Only terminal states
// (completed, dead) may be targeted; ErrBadState is returned
// otherwise, mirroring the teacher's Cleaner.Clean guard.
func (s *SQLStore) DeleteOlderThan(ctx context.Context, state job.State, before time.Time) (int64, error) {
	q := s.db.NewDelete().Model((*jobModel)(nil))
	switch state {
	case job.Unknown:
		q = q.Where("state IN (?, ?)", job.Completed, job.Dead)
	case job.Completed, job.Dead:
		q = q.Where("state = ?", state)
	default:
		return 0, ErrBadState
	}
	res, err := q.Where("updated_at <= ?", before).Exec(ctx)
	if err != nil {
		return 0, wrapErr("delete older than", err)
	}
	return getAffected(res), nil
}
