// Package migrate applies the embedded SQL migrations shipped with each
// storage backend using goose.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
)

// Supported migration commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// Commands lists every command accepted by Run.
var Commands = []string{CommandUp, CommandDown, CommandReset, CommandStatus, CommandVersion}

// ErrUnknownCommand is returned by Run for a command not in Commands.
var ErrUnknownCommand = errors.New("unknown migration command")

// slogGooseLogger adapts slog to goose's Logger interface.
type slogGooseLogger struct {
	log *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. The provider API reports failures through
// returned errors, so this only logs.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Runner executes migrations from one filesystem against one database.
type Runner struct {
	provider *goose.Provider
	log      *slog.Logger
}

// NewRunner creates a Runner. fsys must contain the .sql files at its root.
func NewRunner(dialect goose.Dialect, db *sql.DB, fsys fs.FS, logger *slog.Logger, verbose bool) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "migrations"), slog.String("dialect", string(dialect)))

	provider, err := goose.NewProvider(dialect, db, fsys,
		goose.WithLogger(&slogGooseLogger{log: log}),
		goose.WithVerbose(verbose),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Runner{provider: provider, log: log}, nil
}

// Run executes a single migration command.
func (r *Runner) Run(ctx context.Context, command string) error {
	switch command {
	case CommandUp:
		results, err := r.provider.Up(ctx)
		r.logResults(results)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		return nil

	case CommandDown:
		result, err := r.provider.Down(ctx)
		if errors.Is(err, goose.ErrNoNextVersion) {
			r.log.Info("no migrations to roll back")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		r.logResults([]*goose.MigrationResult{result})
		return nil

	case CommandReset:
		results, err := r.provider.DownTo(ctx, 0)
		r.logResults(results)
		if err != nil {
			return fmt.Errorf("migrate reset: %w", err)
		}
		return nil

	case CommandStatus:
		statuses, err := r.provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range statuses {
			r.log.Info("migration status",
				slog.Int64("version", s.Source.Version),
				slog.String("path", s.Source.Path),
				slog.String("state", string(s.State)),
				slog.Time("applied_at", s.AppliedAt))
		}
		return nil

	case CommandVersion:
		version, err := r.Version(ctx)
		if err != nil {
			return err
		}
		r.log.Info("current database version", slog.Int64("version", version))
		return nil

	default:
		return fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownCommand, command, strings.Join(Commands, ", "))
	}
}

// Version returns the highest applied migration version.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	version, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate version: %w", err)
	}
	return version, nil
}

func (r *Runner) logResults(results []*goose.MigrationResult) {
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		attrs := []any{
			slog.Int64("version", res.Source.Version),
			slog.String("direction", res.Direction),
			slog.Duration("duration", res.Duration),
		}
		if res.Error != nil {
			r.log.Error("migration failed", append(attrs, slog.String("error", res.Error.Error()))...)
			continue
		}
		r.log.Info("migration applied", attrs...)
	}
}
