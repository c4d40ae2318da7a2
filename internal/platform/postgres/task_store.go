package postgres

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

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
// Every statement filters on both the task id and the owner id.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    time.Now,
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = `id, user_id, title, description, completed, priority, due_date, created_at, updated_at`

// Create implements store.TaskStore.Create.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		nullTime(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return MapError(err)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Debug("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// ListByOwner implements store.TaskStore.ListByOwner.
func (s *PostgresTaskStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	completed *bool,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{ownerID}
	if completed != nil {
		query += ` AND completed = $2`
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
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to iterate tasks", MapError(err))
	}

	log.Debug("listed tasks",
		slog.String("user_id", ownerID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return s.queryOne(ctx, "get", query, ownerID, taskID)
}

// Update implements store.TaskStore.Update. The row is locked with
// SELECT ... FOR UPDATE so the read-modify-write is not interleaved with
// other writers; the store must be bound to a transaction for the lock to
// outlive the first statement.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lockQuery := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`
	current, err := s.queryOne(ctx, "update", lockQuery, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := patch.Apply(*current, s.now())
	if err != nil {
		log.Debug("task patch rejected",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	query := `
		UPDATE tasks
		SET title = $3, description = $4, completed = $5, priority = $6, due_date = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	result, err := s.queryOne(ctx, "update", query,
		ownerID, taskID,
		updated.Title,
		updated.Description,
		updated.Completed,
		updated.Priority,
		nullTime(updated.DueDate),
		updated.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	log.Info("task updated successfully",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", ownerID.String()))
	return result, nil
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for delete", slog.String("task_id", taskID.String()))
			return err
		}
		return store.NewStoreError("task", "delete", "failed to confirm delete", err)
	}

	log.Info("task deleted successfully",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", ownerID.String()))
	return nil
}

// ToggleCompletion implements store.TaskStore.ToggleCompletion. The flip
// happens inside one UPDATE so the row lock taken by that statement
// serializes concurrent toggles.
func (s *PostgresTaskStore) ToggleCompletion(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET completed = NOT completed,
		    updated_at = GREATEST($3, updated_at + INTERVAL '1 microsecond')
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return s.queryOne(ctx, "toggle", query, ownerID, taskID, s.now().UTC())
}

// WithTx implements store.TaskStore.WithTx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}

// queryOne runs a single-row task query whose first two placeholders are
// the task id and the owner id.
func (s *PostgresTaskStore) queryOne(
	ctx context.Context,
	operation, query string,
	ownerID, taskID uuid.UUID,
	extra ...any,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	args := append([]any{taskID, ownerID}, extra...)
	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.String("operation", operation),
				slog.String("task_id", taskID.String()),
				slog.String("user_id", ownerID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("task query failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, store.NewStoreError("task", operation, "query failed", MapError(err))
	}
	return task, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t   domain.Task
		due sql.NullTime
	)
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.Priority,
		&due,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time.UTC()
		t.DueDate = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
