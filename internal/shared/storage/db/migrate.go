package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

// The résumé schema (users, profiles, experiences, education, entitlement
// tables) ships inside the binary so the bot and the migrate command never
// depend on files on disk.
//
//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations brings the résumé schema up to date via goose. A nil database
// means the bot is running on in-memory stores and there is nothing to
// migrate.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, database, "migrations")
}
