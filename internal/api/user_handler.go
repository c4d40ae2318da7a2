package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
)

// UserHandler serves profile reads.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("users cannot be nil for UserHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// Me handles GET /api/auth/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, _, ok := callerAndPath(w, r, log)
	if !ok {
		return
	}

	h.respondWithProfile(w, r, caller, caller)
}

// GetUser handles GET /api/users/{user_id}. Only the caller's own profile
// is readable.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ids, ok := callerAndPath(w, r, log, userIDParam)
	if !ok {
		return
	}

	h.respondWithProfile(w, r, caller, ids[0])
}

func (h *UserHandler) respondWithProfile(w http.ResponseWriter, r *http.Request, caller, userID uuid.UUID) {
	user, err := h.users.GetProfile(r.Context(), caller, userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}
