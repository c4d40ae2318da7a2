package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// Path parameter names.
const (
	userIDParam = "user_id"
	taskIDParam = "task_id"
)

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required")
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format")
	}

	return id, nil
}

// callerAndPath extracts the authenticated caller and the named UUID path
// parameters. It writes the error response and returns ok=false when any of
// them is missing or malformed.
func callerAndPath(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	paramNames ...string,
) (caller uuid.UUID, ids []uuid.UUID, ok bool) {
	caller, ok = shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, auth.ErrUnauthenticated)
		return uuid.Nil, nil, false
	}

	ids = make([]uuid.UUID, 0, len(paramNames))
	for _, name := range paramNames {
		id, err := getPathUUID(r, name)
		if err != nil {
			log.Debug("invalid path parameter",
				slog.String("param_name", name),
				slog.String("value", chi.URLParam(r, name)))
			HandleAPIError(w, r, err)
			return uuid.Nil, nil, false
		}
		ids = append(ids, id)
	}

	return caller, ids, true
}

// parseCompletedFilter reads the optional ?completed= query parameter.
func parseCompletedFilter(r *http.Request) (*bool, error) {
	raw := r.URL.Query().Get("completed")
	if raw == "" {
		return nil, nil
	}
	completed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError("completed", "must be true or false")
	}
	return &completed, nil
}
