package main

import (
	"context"

	"github.com/sllt/sqlbuilder/pkg/sqlb"
	"github.com/sllt/sqlbuilder/pkg/sqlb/migration"
)

func allMigrations() map[int64]migration.Migrate {
	return map[int64]migration.Migrate{
		1722507126: createTableUser(),
		1722507180: createTableScore(),
	}
}

func createTableUser() migration.Migrate {
	return migration.Migrate{
		UP: func(ctx context.Context, db migration.SQL) error {
			_, err := db.ExecContext(ctx, `create table if not exists user (
				id integer primary key autoincrement,
				name varchar(64),
				age integer,
				score integer,
				address varchar(255),
				create_time varchar(64)
			)`)

			return err
		},
	}
}

func createTableScore() migration.Migrate {
	return migration.Migrate{
		UP: func(ctx context.Context, db migration.SQL) error {
			_, err := db.ExecContext(ctx, "create table if not exists score (id integer primary key, points integer)")
			if err != nil {
				return err
			}

			_, err = db.Exec(ctx, sqlb.NewInsert().Into("score").Insert("id", 1).Insert("points", 90))

			return err
		},
	}
}
