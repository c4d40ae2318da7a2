package postgres

import (
	"database/sql"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the schema migrations for PostgreSQL.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		// ALLOW-PANIC: the embedded path is fixed at compile time
		panic(err)
	}
	return sub
}

// NewMigrationRunner creates a goose runner for the PostgreSQL schema.
func NewMigrationRunner(db *sql.DB, logger *slog.Logger, verbose bool) (*migrate.Runner, error) {
	return migrate.NewRunner(goose.DialectPostgres, db, Migrations(), logger, verbose)
}
