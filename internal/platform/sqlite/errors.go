package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/phrazzld/todo-api/internal/store"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// MapError maps a SQLite error to the matching store error, wrapping the
// original for debugging. Unrecognized errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
		return fmt.Errorf("%w: check constraint violation: %v", store.ErrInvalidEntity, err)
	case sqlite3lib.SQLITE_CONSTRAINT_NOTNULL:
		return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a SQLite unique or primary key violation.
func IsUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
}

// IsForeignKeyViolation reports whether err is a SQLite foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
}
