package service

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

// Authorizer decides whether caller may act on resources owned by owner.
// auth.Guard implements it.
type Authorizer interface {
	Authorize(ctx context.Context, caller, owner uuid.UUID) error
}

// CreateTaskInput carries the caller-supplied fields of a new task.
// A zero Priority selects domain.DefaultPriority.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    int
	DueDate     *time.Time
}

// TaskService provides owner-scoped task operations. callerID is the
// authenticated user; ownerID is the user whose tasks are addressed.
type TaskService interface {
	// ListTasks returns the owner's tasks, optionally filtered by completion.
	ListTasks(ctx context.Context, callerID, ownerID uuid.UUID, completed *bool) ([]*domain.Task, error)

	// CreateTask creates a task owned by ownerID.
	CreateTask(ctx context.Context, callerID, ownerID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// GetTask returns a single task.
	GetTask(ctx context.Context, callerID, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateTask applies a partial update and returns the stored task.
	UpdateTask(ctx context.Context, callerID, ownerID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask permanently removes a task.
	DeleteTask(ctx context.Context, callerID, ownerID, taskID uuid.UUID) error

	// ToggleTask flips the completion flag and returns the stored task.
	ToggleTask(ctx context.Context, callerID, ownerID, taskID uuid.UUID) (*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks        store.TaskStore
	db           store.TxBeginner
	guard        Authorizer
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
// A non-positive queryTimeout disables the per-call deadline.
func NewTaskService(
	tasks store.TaskStore,
	db store.TxBeginner,
	guard Authorizer,
	queryTimeout time.Duration,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil")
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil")
	}
	if guard == nil {
		return nil, domain.NewValidationError("guard", "cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:        tasks,
		db:           db,
		guard:        guard,
		queryTimeout: queryTimeout,
		logger:       logger.With(slog.String("component", "task_service")),
	}, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	callerID, ownerID uuid.UUID,
	completed *bool,
) ([]*domain.Task, error) {
	if err := s.guard.Authorize(ctx, callerID, ownerID); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	tasks, err := s.tasks.ListByOwner(ctx, ownerID, completed)
	if err != nil {
		return nil, s.wrap(ctx, "list_tasks", err)
	}
	return tasks, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	callerID, ownerID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	if err := s.guard.Authorize(ctx, callerID, ownerID); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(ownerID, input.Title, input.Description, input.Priority, input.DueDate)
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		return tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, s.wrap(ctx, "create_task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", ownerID.String()))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, callerID, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if err := s.guard.Authorize(ctx, callerID, ownerID); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.wrap(ctx, "get_task", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	callerID, ownerID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if err := s.guard.Authorize(ctx, callerID, ownerID); err != nil {
		return nil, err
	}

	var updated *domain.Task
	err := s.inTx(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		var err error
		updated, err = tasks.Update(ctx, ownerID, taskID, patch)
		return err
	})
	if err != nil {
		return nil, s.wrap(ctx, "update_task", err)
	}
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, callerID, ownerID, taskID uuid.UUID) error {
	if err := s.guard.Authorize(ctx, callerID, ownerID); err != nil {
		return err
	}

	err := s.inTx(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		return tasks.Delete(ctx, ownerID, taskID)
	})
	if err != nil {
		return s.wrap(ctx, "delete_task", err)
	}
	return nil
}

// ToggleTask implements TaskService.ToggleTask
func (s *taskServiceImpl) ToggleTask(ctx context.Context, callerID, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if err := s.guard.Authorize(ctx, callerID, ownerID); err != nil {
		return nil, err
	}

	var toggled *domain.Task
	err := s.inTx(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		var err error
		toggled, err = tasks.ToggleCompletion(ctx, ownerID, taskID)
		return err
	})
	if err != nil {
		return nil, s.wrap(ctx, "toggle_task", err)
	}
	return toggled, nil
}

// inTx runs fn in a transaction bounded by the query timeout, handing it a
// transaction-bound store.
func (s *taskServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context, tasks store.TaskStore) error) error {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.tasks.WithTx(tx))
	})
}

// wrap logs err at a level matching its kind and wraps it for the caller.
// Expected outcomes keep their sentinel reachable through errors.Is.
func (s *taskServiceImpl) wrap(ctx context.Context, operation string, err error) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		log.Debug("task not found", slog.String("operation", operation))
		return NewTaskServiceError(operation, "task not found", err)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		log.Debug("task rejected", slog.String("operation", operation), slog.String("error", err.Error()))
		return NewTaskServiceError(operation, "invalid task", err)
	default:
		log.Error("task operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
		return NewTaskServiceError(operation, "unexpected error", err)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
