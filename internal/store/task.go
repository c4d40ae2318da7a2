package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
//
// Every read and write is scoped by owner: a task that exists but belongs to
// another user is reported as ErrTaskNotFound, exactly like a missing one.
// Ownership itself is checked by the caller before any of these methods run.
type TaskStore interface {
	// Create inserts a validated task. Returns ErrInvalidEntity when the
	// owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// ListByOwner returns the owner's tasks ordered by creation time, then id.
	// A non-nil completed filters on the completion flag.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, completed *bool) ([]*domain.Task, error)

	// GetByID returns a single task owned by ownerID.
	GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// Update applies patch to the task under a row lock and returns the
	// stored result. Only the supplied fields change; updated_at advances.
	Update(ctx context.Context, ownerID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes the task permanently. Deleting an already deleted task
	// returns ErrTaskNotFound.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error

	// ToggleCompletion flips the completion flag in a single statement and
	// returns the stored result. Concurrent toggles never lose an update.
	ToggleCompletion(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
