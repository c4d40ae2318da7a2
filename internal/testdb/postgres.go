//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// GetTestDBWithT returns a migrated PostgreSQL connection for testing.
// It skips the test if no database URL is configured and closes the
// connection on cleanup.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		t.Skip("DATABASE_URL or TODO_TEST_DB_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", GetTestDatabaseURL())
	require.NoError(t, err, "Failed to open database connection")

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	t.Cleanup(func() {
		CleanupDB(t, db)
	})

	runner, err := postgres.NewMigrationRunner(db, nil, false)
	require.NoError(t, err, "Failed to create migration runner")
	require.NoError(t, runner.Run(ctx, migrate.CommandUp), "Failed to apply migrations")

	return db
}

// ResetTables removes every row written by earlier tests.
func ResetTables(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := db.ExecContext(ctx, "TRUNCATE tasks, users")
	require.NoError(t, err, "Failed to truncate tables")
}

// WithTx runs fn within a transaction that is always rolled back, so tests
// can share one database without seeing each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if r := recover(); r != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				t.Logf("Warning: failed to rollback transaction after panic: %v", rollbackErr)
			}
			// ALLOW-PANIC
			panic(r)
		}

		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
