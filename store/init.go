package store

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/job"
)

func createJobsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*jobModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createConfigTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*configModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createNextRetryIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_next_retry").
		Column("state", "next_retry_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func createLeaseIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_lease").
		Column("state", "lease_expires_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func createUpdatedIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_updated").
		Column("state", "updated_at").
		IfNotExists().
		Exec(ctx)
	return err
}

// seedConfig inserts the default configuration row if the config
// table is empty. It is the Go-level equivalent of the original
// Python storage's lazy self.get_config() default, made explicit at
// schema-creation time.
func seedConfig(ctx context.Context, db bun.IDB) error {
	exists, err := db.NewSelect().Model((*configModel)(nil)).Where("id = ?", configRowID).Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = db.NewInsert().Model(fromConfig(job.DefaultConfig())).Exec(ctx)
	return err
}

func initSchema(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	steps := []func(context.Context, bun.IDB) error{
		createJobsTable,
		createConfigTable,
		createNextRetryIndex,
		createLeaseIndex,
		createUpdatedIndex,
		seedConfig,
	}
	for _, step := range steps {
		if err := step(ctx, tx); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}
