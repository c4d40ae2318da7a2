package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccessTokenType is the value of the "type" claim on session tokens.
const AccessTokenType = "access"

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns ErrExpiredToken for an expired token and ErrInvalidToken for
	// every other failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime returns how long newly issued tokens stay valid.
	TokenLifetime() time.Duration
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType is always "access" for tokens accepted by ValidateToken.
	TokenType string `json:"type,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
