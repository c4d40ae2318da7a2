package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskStore is a mock of store.TaskStore interface for use with testify/mock
type TestifyMockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

func taskResult(args mock.Arguments) (*domain.Task, error) {
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.TaskStore.Create
func (m *TestifyMockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// ListByOwner is a mock implementation of store.TaskStore.ListByOwner
func (m *TestifyMockTaskStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	completed *bool,
) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerID, completed)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *TestifyMockTaskStore) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, taskID))
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TestifyMockTaskStore) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, taskID, patch))
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *TestifyMockTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	args := m.Called(ctx, ownerID, taskID)
	return args.Error(0)
}

// ToggleCompletion is a mock implementation of store.TaskStore.ToggleCompletion
func (m *TestifyMockTaskStore) ToggleCompletion(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, taskID))
}

// WithTx returns the mock itself so expectations carry into transactions.
func (m *TestifyMockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
