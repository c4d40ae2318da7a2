package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewTask(t *testing.T) {
	owner := uuid.New()

	t.Run("valid task gets defaults", func(t *testing.T) {
		task, err := NewTask(owner, "  Buy milk  ", "", 0, nil)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, owner, task.UserID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.False(t, task.Completed)
		assert.Equal(t, DefaultPriority, task.Priority)
		assert.Nil(t, task.DueDate)
		assert.False(t, task.CreatedAt.IsZero())
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	})

	t.Run("due date normalized to UTC", func(t *testing.T) {
		loc := time.FixedZone("plus2", 2*60*60)
		due := time.Date(2030, 1, 2, 10, 0, 0, 0, loc)
		task, err := NewTask(owner, "t", "", 5, &due)
		require.NoError(t, err)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, time.UTC, task.DueDate.Location())
		assert.True(t, due.Equal(*task.DueDate))
	})

	tests := []struct {
		name        string
		owner       uuid.UUID
		title       string
		description string
		priority    int
		want        error
	}{
		{"empty title", owner, "", "", 1, ErrTitleEmpty},
		{"whitespace title", owner, "   ", "", 1, ErrTitleEmpty},
		{"title at limit", owner, strings.Repeat("a", MaxTitleLength), "", 1, nil},
		{"title too long", owner, strings.Repeat("a", MaxTitleLength+1), "", 1, ErrTitleTooLong},
		{"multibyte title at limit", owner, strings.Repeat("é", MaxTitleLength), "", 1, nil},
		{"description at limit", owner, "t", strings.Repeat("d", MaxDescriptionLength), 1, nil},
		{"description too long", owner, "t", strings.Repeat("d", MaxDescriptionLength+1), 1, ErrDescriptionTooLong},
		{"priority below range", owner, "t", "", -1, ErrPriorityOutOfRange},
		{"priority above range", owner, "t", "", 6, ErrPriorityOutOfRange},
		{"nil owner", uuid.Nil, "t", "", 1, ErrTaskUserIDEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTask(tc.owner, tc.title, tc.description, tc.priority, nil)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	original, err := NewTask(uuid.New(), "original", "desc", 2, nil)
	require.NoError(t, err)

	t.Run("omitted fields retain values", func(t *testing.T) {
		updated, err := TaskPatch{Title: ptr("renamed")}.Apply(*original, time.Now())
		require.NoError(t, err)

		assert.Equal(t, "renamed", updated.Title)
		assert.Equal(t, "desc", updated.Description)
		assert.Equal(t, 2, updated.Priority)
		assert.Equal(t, original.Completed, updated.Completed)
		assert.Equal(t, original.ID, updated.ID)
		assert.Equal(t, original.UserID, updated.UserID)
		assert.Equal(t, "original", original.Title, "original must not be mutated")
	})

	t.Run("all fields applied", func(t *testing.T) {
		due := time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC)
		updated, err := TaskPatch{
			Title:       ptr("x"),
			Description: ptr(""),
			Completed:   ptr(true),
			Priority:    ptr(5),
			DueDate:     &due,
		}.Apply(*original, time.Now())
		require.NoError(t, err)

		assert.Equal(t, "x", updated.Title)
		assert.Empty(t, updated.Description)
		assert.True(t, updated.Completed)
		assert.Equal(t, 5, updated.Priority)
		require.NotNil(t, updated.DueDate)
		assert.True(t, due.Equal(*updated.DueDate))
	})

	t.Run("updated_at strictly advances", func(t *testing.T) {
		updated, err := TaskPatch{}.Apply(*original, original.UpdatedAt)
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		_, err := TaskPatch{Title: ptr("")}.Apply(*original, time.Now())
		assert.ErrorIs(t, err, ErrTitleEmpty)

		_, err = TaskPatch{Priority: ptr(0)}.Apply(*original, time.Now())
		assert.ErrorIs(t, err, ErrPriorityOutOfRange)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "priority", vErr.Field)
	})
}
