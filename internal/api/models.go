package api

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/todo-api/internal/domain"
)

// TokenTypeBearer is the token_type of every issued access token.
const TokenTypeBearer = "bearer"

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email,max=254"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name"  validate:"omitempty,max=100"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse defines the successful response for the login endpoint.
type TokenResponse struct {
	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresAt is when the access token stops being accepted
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of an account. The password digest is
// never part of it.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// CreateTaskRequest defines the payload for creating a task.
// An omitted priority selects the default.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description" validate:"max=1000"`
	Priority    *int       `json:"priority"    validate:"omitempty,min=1,max=5"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest defines the payload for a partial task update. Omitted
// fields keep their stored values.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Completed   *bool      `json:"completed"`
	Priority    *int       `json:"priority"    validate:"omitempty,min=1,max=5"`
	DueDate     *time.Time `json:"due_date"`
}

func (r UpdateTaskRequest) toPatch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
	}
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
