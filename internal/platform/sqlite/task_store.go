package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskStore implements store.TaskStore on SQLite. Every statement filters
// on both the task id and the owner id.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskStore creates a SQLite TaskStore. If logger is nil, a default
// logger will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store"), slog.String("driver", DriverName)),
		now:    time.Now,
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

const taskColumns = `id, user_id, title, description, completed, priority, due_date, created_at, updated_at`

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID.String(),
		task.UserID.String(),
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		nullMicros(task.DueDate),
		toMicros(task.CreatedAt),
		toMicros(task.UpdatedAt),
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		if IsForeignKeyViolation(err) {
			return MapError(err)
		}
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Debug("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// ListByOwner implements store.TaskStore.ListByOwner.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, completed *bool) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{ownerID.String()}
	if completed != nil {
		query += ` AND completed = ?`
		args = append(args, *completed)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to iterate tasks", MapError(err))
	}
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.queryOne(ctx, "get",
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`,
		taskID.String(), ownerID.String())
}

// Update implements store.TaskStore.Update. SQLite has no row locks; the
// store must run inside a transaction, which this package opens with
// BEGIN IMMEDIATE so the read and the write hold the database write lock.
func (s *TaskStore) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	current, err := s.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := patch.Apply(*current, s.now())
	if err != nil {
		return nil, err
	}

	result, err := s.queryOne(ctx, "update", `
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
		RETURNING `+taskColumns,
		updated.Title,
		updated.Description,
		updated.Completed,
		updated.Priority,
		nullMicros(updated.DueDate),
		toMicros(updated.UpdatedAt),
		taskID.String(),
		ownerID.String(),
	)
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated successfully",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", ownerID.String()))
	return result, nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID.String(), ownerID.String())
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "delete", "failed to confirm delete", err)
	}
	if n == 0 {
		log.Debug("task not found for delete", slog.String("task_id", taskID.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", ownerID.String()))
	return nil
}

// ToggleCompletion implements store.TaskStore.ToggleCompletion as one
// UPDATE ... RETURNING statement.
func (s *TaskStore) ToggleCompletion(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.queryOne(ctx, "toggle", `
		UPDATE tasks
		SET completed = NOT completed,
		    updated_at = MAX(?, updated_at + 1)
		WHERE id = ? AND user_id = ?
		RETURNING `+taskColumns,
		toMicros(s.now()),
		taskID.String(),
		ownerID.String(),
	)
}

// WithTx implements store.TaskStore.WithTx.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}

func (s *TaskStore) queryOne(ctx context.Context, operation, query string, args ...any) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("operation", operation))
			return nil, store.ErrTaskNotFound
		}
		log.Error("task query failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", operation, "query failed", MapError(err))
	}
	return task, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t                    domain.Task
		due                  sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.Priority,
		&due,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if due.Valid {
		d := fromMicros(due.Int64)
		t.DueDate = &d
	}
	t.CreatedAt = fromMicros(createdAt)
	t.UpdatedAt = fromMicros(updatedAt)
	return &t, nil
}
