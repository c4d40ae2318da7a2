package testdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup work done by the fixtures in this package.
const TestTimeout = 10 * time.Second

// OpenSQLite returns a freshly migrated SQLite database stored in a
// temporary directory owned by t. The database is closed on cleanup.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to open sqlite database")
	t.Cleanup(func() {
		CleanupDB(t, db)
	})

	runner, err := sqlite.NewMigrationRunner(db, nil, false)
	require.NoError(t, err, "Failed to create migration runner")
	require.NoError(t, runner.Run(ctx, migrate.CommandUp), "Failed to apply migrations")

	return db
}

// CleanupDB closes a database connection, logging any error.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		t.Logf("Warning: failed to close database connection: %v", err)
	}
}
