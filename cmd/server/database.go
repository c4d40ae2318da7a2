package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
)

// Supported values of database.driver.
const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

const pingTimeout = 5 * time.Second

// setupAppDatabase establishes a connection to the configured database and
// configures the connection pool. Returns the database connection if
// successful, or an error if the connection fails.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	var (
		db  *sql.DB
		err error
	)

	switch cfg.Database.Driver {
	case driverPostgres:
		db, err = sql.Open("pgx", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %w", err)
		}
	case driverSQLite:
		db, err = sqlite.Open(pingCtx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	configurePool(db, cfg.Database)

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		"driver", cfg.Database.Driver,
		"max_open_conns", cfg.Database.MaxOpenConns)
	return db, nil
}

func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
}
