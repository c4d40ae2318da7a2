package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"unauthenticated", errors.Join(auth.ErrUnauthenticated, auth.ErrInvalidToken), http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", fmt.Errorf("login: %w", service.ErrInvalidCredentials), http.StatusUnauthorized},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden},
		{"task not found", service.NewTaskServiceError("get_task", "task not found", store.ErrTaskNotFound), http.StatusNotFound},
		{"user not found", fmt.Errorf("failed to get profile: %w", store.ErrUserNotFound), http.StatusNotFound},
		{"email exists", fmt.Errorf("failed to register user: %w", store.ErrEmailExists), http.StatusConflict},
		{"domain validation", domain.ErrPriorityOutOfRange, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown error", errors.New("connection reset by peer"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"invalid credentials", service.ErrInvalidCredentials, "Incorrect email or password"},
		{"expired", errors.Join(auth.ErrUnauthenticated, auth.ErrExpiredToken), "Could not validate credentials"},
		{"forbidden", auth.ErrForbidden, "Not authorized to access this resource"},
		{"task not found", store.ErrTaskNotFound, "Task not found"},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"email exists", store.ErrEmailExists, "Email already registered"},
		{"validation", fmt.Errorf("create: %w", domain.ErrTitleEmpty), "title: title cannot be empty"},
		{"internal", errors.New("pq: relation \"tasks\" does not exist"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Run("unauthorized carries a bearer challenge", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleAPIError(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), service.ErrInvalidCredentials)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("failed login is logged at warn", func(t *testing.T) {
		var logs bytes.Buffer
		log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req = req.WithContext(logger.WithContext(req.Context(), log))
		rec := httptest.NewRecorder()

		HandleAPIError(rec, req, fmt.Errorf("login: %w", service.ErrInvalidCredentials))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, logs.String(), `level=WARN msg="API error response"`)
	})

	t.Run("ownership denial is warned about once", func(t *testing.T) {
		var logs bytes.Buffer
		log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		req := httptest.NewRequest(http.MethodGet, "/api/users/x/tasks", nil)
		req = req.WithContext(logger.WithContext(req.Context(), log))
		rec := httptest.NewRecorder()

		err := auth.NewGuard().Authorize(req.Context(), uuid.New(), uuid.New())
		require.ErrorIs(t, err, auth.ErrForbidden)
		HandleAPIError(rec, req, err)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, 1, strings.Count(logs.String(), "level=WARN"), logs.String())
		assert.Contains(t, logs.String(), "ownership check denied")
		assert.Contains(t, logs.String(), "level=DEBUG msg=\"API error response\"")
	})

	t.Run("internal errors expose only the trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/x/tasks", nil)
		req = req.WithContext(shared.SetTraceID(req.Context(), "trace-123"))
		rec := httptest.NewRecorder()

		HandleAPIError(rec, req, errors.New("SELECT id FROM tasks WHERE user_id = $1: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{
			"error":    "An unexpected error occurred",
			"trace_id": "trace-123",
		}, body)
	})
}

func TestSanitizeValidationError(t *testing.T) {
	v := newValidator()
	priority := 9

	tests := []struct {
		name     string
		req      any
		expected string
	}{
		{"missing email", RegisterRequest{Password: "password123"}, "Invalid email: required field"},
		{"bad email", RegisterRequest{Email: "nope", Password: "password123"}, "Invalid email: invalid email format"},
		{"short password", RegisterRequest{Email: "a@b.co", Password: "short"}, "Invalid password: too short"},
		{"priority out of range", CreateTaskRequest{Title: "t", Priority: &priority}, "Invalid priority: out of range"},
		{"missing title", CreateTaskRequest{}, "Invalid title: required field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.expected, SanitizeValidationError(err))
		})
	}

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
