package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
)

// newMigrationRunner returns the runner holding the schema of the configured
// backend.
func newMigrationRunner(cfg *config.Config, db *sql.DB, logger *slog.Logger, verbose bool) (*migrate.Runner, error) {
	switch cfg.Database.Driver {
	case driverPostgres:
		return postgres.NewMigrationRunner(db, logger, verbose)
	case driverSQLite:
		return sqlite.NewMigrationRunner(db, logger, verbose)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// handleMigrations executes a single migration command.
// It's called from run() when the -migrate flag is set.
func handleMigrations(
	ctx context.Context,
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	migrateCmd string,
	verbose bool,
) error {
	logger.Info("Executing migrations",
		"command", migrateCmd,
		"driver", cfg.Database.Driver,
		"verbose", verbose)

	runner, err := newMigrationRunner(cfg, db, logger, verbose)
	if err != nil {
		return err
	}

	if err := runner.Run(ctx, migrateCmd); err != nil {
		return fmt.Errorf("migration %q failed: %w", migrateCmd, err)
	}
	return nil
}
