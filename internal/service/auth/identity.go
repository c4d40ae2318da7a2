package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

const bearerPrefix = "Bearer "

// IdentityResolver turns an Authorization header into a caller id.
// It holds no state beyond the token verifier.
type IdentityResolver struct {
	jwt JWTService
}

// NewIdentityResolver creates an IdentityResolver backed by the given token service.
func NewIdentityResolver(jwtService JWTService) (*IdentityResolver, error) {
	if jwtService == nil {
		return nil, errors.New("jwtService cannot be nil")
	}
	return &IdentityResolver{jwt: jwtService}, nil
}

// ParseBearer extracts the token from a "Bearer <token>" header value.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrInvalidAuthScheme
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// Resolve returns the id of the user the header's token was issued for.
// Every failure is reported as ErrUnauthenticated wrapping the cause.
func (r *IdentityResolver) Resolve(ctx context.Context, authorizationHeader string) (uuid.UUID, error) {
	log := logger.FromContext(ctx)

	token, err := ParseBearer(authorizationHeader)
	if err != nil {
		log.Debug("identity resolution failed", slog.String("reason", err.Error()))
		return uuid.Nil, errors.Join(ErrUnauthenticated, err)
	}

	claims, err := r.jwt.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, errors.Join(ErrUnauthenticated, err)
	}

	return claims.UserID, nil
}
