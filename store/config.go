package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/queuectl/queuectl/job"
)

// GetConfig implements ConfigStore.
func (s *SQLStore) GetConfig(ctx context.Context) (job.Config, error) {
	var m configModel
	err := s.db.NewSelect().Model(&m).Where("id = ?", configRowID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return job.DefaultConfig(), nil
		}
		return job.Config{}, wrapErr("get config", err)
	}
	return m.toConfig(), nil
}

// PutConfig implements ConfigStore.
func (s *SQLStore) PutConfig(ctx context.Context, cfg job.Config) error {
	_, err := s.db.NewInsert().
		Model(fromConfig(cfg)).
		On("CONFLICT (id) DO UPDATE").
		Set("max_retries = EXCLUDED.max_retries").
		Set("backoff_base = EXCLUDED.backoff_base").
		Set("worker_poll_interval_ms = EXCLUDED.worker_poll_interval_ms").
		Set("job_timeout_ms = EXCLUDED.job_timeout_ms").
		Exec(ctx)
	if err != nil {
		return wrapErr("put config", err)
	}
	return nil
}
