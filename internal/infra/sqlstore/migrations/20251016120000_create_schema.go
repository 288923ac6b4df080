package migrations

import (
	"context"
	_ "embed"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

//go:embed 0001_schema.sqlite.sql
var createSchemaSQLite string

//go:embed 0001_schema.postgres.sql
var createSchemaPostgres string

var dropSchema = []string{
	`DROP TABLE IF EXISTS quiz_folders`,
	`DROP TABLE IF EXISTS options`,
	`DROP TABLE IF EXISTS questions`,
	`DROP TABLE IF EXISTS quizzes`,
	`DROP TABLE IF EXISTS folders`,
	`DROP TABLE IF EXISTS users`,
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			script := createSchemaPostgres
			if db.Dialect().Name() == dialect.SQLite {
				script = createSchemaSQLite
			}
			return execScript(ctx, db, script)
		},
		func(ctx context.Context, db *bun.DB) error {
			for _, stmt := range dropSchema {
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		},
	)
}

func execScript(ctx context.Context, db *bun.DB, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
