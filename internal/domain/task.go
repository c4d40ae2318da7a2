package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Task field limits. Lengths are counted in characters, not bytes.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MinPriority          = 1
	MaxPriority          = 5
	DefaultPriority      = 3
)

// Task validation errors
var (
	ErrTaskIDEmpty        = NewValidationError("id", "task ID cannot be empty")
	ErrTaskUserIDEmpty    = NewValidationError("user_id", "task owner cannot be empty")
	ErrTitleEmpty         = NewValidationError("title", "title cannot be empty")
	ErrTitleTooLong       = NewValidationError("title", "title must be at most 200 characters")
	ErrDescriptionTooLong = NewValidationError("description", "description must be at most 1000 characters")
	ErrPriorityOutOfRange = NewValidationError("priority", "priority must be between 1 and 5")
)

// Task is a single to-do item. UserID is fixed at creation and never changes.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates an incomplete Task owned by userID. A zero priority selects
// DefaultPriority.
func NewTask(userID uuid.UUID, title, description string, priority int, dueDate *time.Time) (*Task, error) {
	if priority == 0 {
		priority = DefaultPriority
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Priority:    priority,
		DueDate:     normalizeDueDate(dueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if t.Priority < MinPriority || t.Priority > MaxPriority {
		return ErrPriorityOutOfRange
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// TaskPatch is a partial update. A nil field leaves the stored value untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *int
	DueDate     *time.Time
}

// Apply returns a copy of t with the patch applied and UpdatedAt set to now.
// The original is left untouched when the result would be invalid.
func (p TaskPatch) Apply(t Task, now time.Time) (*Task, error) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = normalizeDueDate(p.DueDate)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	now = now.UTC().Truncate(time.Microsecond)
	// Keep updated_at strictly increasing even when two writes share a clock tick.
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now

	return &t, nil
}

func normalizeDueDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	utc := d.UTC().Truncate(time.Microsecond)
	return &utc
}
