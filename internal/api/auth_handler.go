package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	validator  *validator.Validate
	logger     *slog.Logger
	timeFunc   func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, jwtService auth.JWTService, logger *slog.Logger) *AuthHandler {
	if users == nil || jwtService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("users and jwtService cannot be nil for AuthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		validator:  newValidator(),
		logger:     logger.With(slog.String("component", "auth_handler")),
		timeFunc:   time.Now,
	}
}

// WithTimeFunc sets the clock used for expires_at and returns the handler.
func (h *AuthHandler) WithTimeFunc(timeFunc func() time.Time) *AuthHandler {
	h.timeFunc = timeFunc
	return h
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode register request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Login handles POST /api/auth/login. Unknown emails, wrong passwords and
// inactive accounts all get the same 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode login request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	// Taken before signing so expires_at never runs past the token's exp.
	issuedAt := h.timeFunc()

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   issuedAt.Add(h.jwtService.TokenLifetime()).UTC().Truncate(time.Second),
	})
}
