// Package sqlite provides SQLite-backed implementations of the store
// interfaces on the pure-Go modernc.org/sqlite driver. It serves local
// development and the behavioral test suites; production runs on postgres.
//
// Timestamps are stored as INTEGER unix microseconds and ids as TEXT.
// Write transactions begin IMMEDIATE so a read-modify-write inside one
// transaction cannot interleave with another writer.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/pressly/goose/v3"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

const dsnParams = "_pragma=foreign_keys(1)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=journal_mode(WAL)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_txlock=immediate"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// DSN builds the connection string for a database file at path.
func DSN(path string) string {
	return filepath.Clean(path) + "?" + dsnParams
}

// Open opens the database file at path and verifies the connection.
// Migrations are not applied; see NewMigrationRunner.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite database path is required")
	}
	if path == ":memory:" {
		return nil, fmt.Errorf("in-memory sqlite databases are not supported; use a file path")
	}

	db, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// Migrations returns the schema migrations for SQLite.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		// ALLOW-PANIC: the embedded path is fixed at compile time
		panic(err)
	}
	return sub
}

// NewMigrationRunner creates a goose runner for the SQLite schema.
func NewMigrationRunner(db *sql.DB, logger *slog.Logger, verbose bool) (*migrate.Runner, error) {
	return migrate.NewRunner(goose.DialectSQLite3, db, Migrations(), logger, verbose)
}

func toMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

func nullMicros(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMicros(*t), Valid: true}
}
