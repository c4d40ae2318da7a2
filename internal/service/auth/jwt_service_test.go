package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestJWTService(t *testing.T, secret string, lifetimeMinutes int, now func() time.Time) JWTService {
	t.Helper()
	svc, err := NewJWTServiceWithClock(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: lifetimeMinutes,
	}, now)
	require.NoError(t, err)
	return svc
}

func at(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestNewJWTService_Validation(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 30})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, svc.TokenLifetime())
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := newTestJWTService(t, testSecret, 30, at(fixedTime))

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, AccessTokenType, claims.TokenType)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	other, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "each token carries a unique jti")
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwtCustomClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	validClaims := func() jwtCustomClaims {
		return jwtCustomClaims{
			UserID:    userID,
			TokenType: AccessTokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				IssuedAt:  jwt.NewNumericDate(fixedTime),
				ExpiresAt: jwt.NewNumericDate(fixedTime.Add(30 * time.Minute)),
				ID:        uuid.NewString(),
			},
		}
	}

	tests := []struct {
		name    string
		token   func() string
		now     time.Time
		wantErr error
	}{
		{
			name:  "valid token",
			token: func() string { return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()) },
			now:   fixedTime.Add(29 * time.Minute),
		},
		{
			name:    "expired token",
			token:   func() string { return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()) },
			now:     fixedTime.Add(30*time.Minute + time.Second),
			wantErr: ErrExpiredToken,
		},
		{
			name:    "invalid signature",
			token:   func() string { return signClaims(t, jwt.SigningMethodHS256, []byte(wrongSecret), validClaims()) },
			now:     fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed token",
			token:   func() string { return "this.is.not.a.valid.jwt.token" },
			now:     fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "different HMAC algorithm",
			token:   func() string { return signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims()) },
			now:     fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "unsigned token",
			token:   func() string { return signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims()) },
			now:     fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong token type",
			token: func() string {
				c := validClaims()
				c.TokenType = "refresh"
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			now:     fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing expiry",
			token: func() string {
				c := validClaims()
				c.ExpiresAt = nil
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			now:     fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name: "subject mismatch",
			token: func() string {
				c := validClaims()
				c.Subject = uuid.NewString()
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			now:     fixedTime,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestJWTService(t, testSecret, 30, at(tc.now))

			claims, err := svc.ValidateToken(context.Background(), tc.token())

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestSecretRotationInvalidatesTokens(t *testing.T) {
	t.Parallel()

	issuer := newTestJWTService(t, testSecret, 30, at(fixedTime))
	rotated := newTestJWTService(t, wrongSecret, 30, at(fixedTime))

	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = rotated.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
