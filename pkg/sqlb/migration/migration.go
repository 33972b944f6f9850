// Package migration applies numbered schema migrations through a
// datasource/sql.DB and records each applied version in sqlb_migrations.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sllt/sqlbuilder/pkg/sqlb"
	"github.com/sllt/sqlbuilder/pkg/sqlb/logging"
)

const (
	migrationTable = "sqlb_migrations"

	createSQLMigrationsTable = `CREATE TABLE IF NOT EXISTS sqlb_migrations (
    version BIGINT not null ,
    method VARCHAR(4) not null ,
    start_time VARCHAR(64) not null ,
    duration BIGINT,
    constraint primary_key primary key (version, method)
);`
)

var (
	errInvalidVersion = errors.New("migration version must be positive")
	errMissingUp      = errors.New("migration has no UP function")
)

// SQL is the part of datasource/sql.DB migrations use.
type SQL interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Exec(ctx context.Context, st sqlb.Statement) (sql.Result, error)
	Select(ctx context.Context, data any, st sqlb.Statement) error
}

// Migrate is one schema change.
type Migrate struct {
	UP func(ctx context.Context, db SQL) error
}

// Run applies every migration newer than the last recorded version, in
// ascending order. It stops at the first failure; versions applied before
// it stay recorded.
func Run(ctx context.Context, db SQL, logger logging.Logger, migrations map[int64]Migrate) error {
	versions, err := sortedVersions(migrations)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, createSQLMigrationsTable); err != nil {
		return fmt.Errorf("creating %s: %w", migrationTable, err)
	}

	last, err := lastMigration(ctx, db)
	if err != nil {
		return err
	}

	logger.Debugf("last applied migration is %d", last)

	for _, v := range versions {
		if v <= last {
			continue
		}

		start := time.Now()

		logger.Infof("running migration %d", v)

		if err := migrations[v].UP(ctx, db); err != nil {
			logger.Errorf("migration %d failed: %v", v, err)

			return fmt.Errorf("migration %d: %w", v, err)
		}

		if err := commitMigration(ctx, db, v, start); err != nil {
			return err
		}

		logger.Infof("migration %d ran successfully", v)
	}

	return nil
}

func sortedVersions(migrations map[int64]Migrate) ([]int64, error) {
	versions := make([]int64, 0, len(migrations))

	for v, m := range migrations {
		if v <= 0 {
			return nil, fmt.Errorf("%w: %d", errInvalidVersion, v)
		}

		if m.UP == nil {
			return nil, fmt.Errorf("%w: %d", errMissingUp, v)
		}

		versions = append(versions, v)
	}

	slices.Sort(versions)

	return versions, nil
}

func lastMigration(ctx context.Context, db SQL) (int64, error) {
	var last []int64

	err := db.Select(ctx, &last, sqlb.Select("COALESCE(MAX(version), 0)").From(migrationTable))
	if err != nil {
		return -1, fmt.Errorf("reading last migration: %w", err)
	}

	if len(last) == 0 {
		return 0, nil
	}

	return last[0], nil
}

func commitMigration(ctx context.Context, db SQL, version int64, start time.Time) error {
	st := sqlb.NewInsert().
		Into(migrationTable).
		Insert("version", version).
		Insert("method", "UP").
		Insert("start_time", start.UTC().Format(time.RFC3339Nano)).
		Insert("duration", time.Since(start).Milliseconds())

	if _, err := db.Exec(ctx, st); err != nil {
		return fmt.Errorf("recording migration %d: %w", version, err)
	}

	return nil
}
