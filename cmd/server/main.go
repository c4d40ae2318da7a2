// Package main implements the entry point for the task API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/todo-api/internal/platform/migrate"
)

// main is the entry point for the task API server. It loads configuration,
// sets up logging, opens the database and then either runs a migration
// command or serves HTTP until SIGINT/SIGTERM.
func main() {
	migrateCmd := flag.String("migrate", "",
		"Run a database migration command and exit ("+strings.Join(migrate.Commands, ", ")+")")
	verbose := flag.Bool("verbose", false, "Enable verbose migration output")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd, *verbose); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run wires the application and blocks until ctx is cancelled or a migration
// command finishes.
func run(ctx context.Context, migrateCmd string, verbose bool) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Error closing database connection", "error", err)
			}
		}()
		return handleMigrations(ctx, cfg, db, logger, migrateCmd, verbose)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
