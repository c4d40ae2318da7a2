package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/redact"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// IdentityResolver turns an Authorization header into a caller id.
// auth.IdentityResolver implements it.
type IdentityResolver interface {
	Resolve(ctx context.Context, authorizationHeader string) (uuid.UUID, error)
}

// AuthMiddleware provides bearer authentication for routes.
type AuthMiddleware struct {
	resolver IdentityResolver
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
	}
}

// Authenticate resolves the caller from the Authorization header and adds
// the caller id to the request context. Every resolution failure is a 401
// with a Bearer challenge; the cause is only logged.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callerID, err := m.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				logger.FromContext(r.Context()).Error("failed to resolve caller identity",
					slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
				return
			}

			// Expired, forged and malformed tokens share one message; the
			// cause is only in the log.
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Could not validate credentials", err,
				shared.WithHeader("WWW-Authenticate", "Bearer"))
			return
		}

		ctx := shared.WithUserID(r.Context(), callerID)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(slog.String("caller_id", callerID.String())))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the caller id from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
