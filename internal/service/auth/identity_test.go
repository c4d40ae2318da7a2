package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header  string
		token   string
		wantErr error
	}{
		{"", "", ErrMissingToken},
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc.def.ghi", "abc.def.ghi", nil},
		{"Bearer    padded  ", "padded", nil},
		{"Bearer ", "", ErrMissingToken},
		{"Basic dXNlcjpwYXNz", "", ErrInvalidAuthScheme},
		{"Bearer", "", ErrInvalidAuthScheme},
		{"abc.def.ghi", "", ErrInvalidAuthScheme},
	}

	for _, tc := range tests {
		t.Run(tc.header, func(t *testing.T) {
			token, err := ParseBearer(tc.header)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestIdentityResolver_Resolve(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(t, testSecret, 30, at(now))
	resolver, err := NewIdentityResolver(svc)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	t.Run("valid bearer token", func(t *testing.T) {
		got, err := resolver.Resolve(context.Background(), "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("stateless across calls", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			got, err := resolver.Resolve(context.Background(), "Bearer "+token)
			require.NoError(t, err)
			assert.Equal(t, userID, got)
		}
	})

	failures := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token " + token,
		"garbage token":  "Bearer not-a-token",
		"tampered token": "Bearer " + token[:len(token)-2] + "xx",
	}
	for name, header := range failures {
		t.Run(name, func(t *testing.T) {
			got, err := resolver.Resolve(context.Background(), header)
			assert.ErrorIs(t, err, ErrUnauthenticated)
			assert.Equal(t, uuid.Nil, got)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		later := newTestJWTService(t, testSecret, 30, at(now.Add(31*time.Minute)))
		r, err := NewIdentityResolver(later)
		require.NoError(t, err)

		_, err = r.Resolve(context.Background(), "Bearer "+token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestNewIdentityResolver_NilService(t *testing.T) {
	_, err := NewIdentityResolver(nil)
	assert.Error(t, err)
}

func TestGuard_Authorize(t *testing.T) {
	g := NewGuard()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	assert.NoError(t, g.Authorize(ctx, alice, alice))
	assert.ErrorIs(t, g.Authorize(ctx, alice, bob), ErrForbidden)
	assert.ErrorIs(t, g.Authorize(ctx, bob, alice), ErrForbidden)
	assert.ErrorIs(t, g.Authorize(ctx, uuid.Nil, uuid.Nil), ErrForbidden, "the nil id never owns anything")
	assert.ErrorIs(t, g.Authorize(ctx, uuid.Nil, alice), ErrForbidden)
}
