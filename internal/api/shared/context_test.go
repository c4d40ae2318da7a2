package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx), "Expected empty trace ID in original context")

	generated := SetTraceID(ctx, "")
	traceID := GetTraceID(generated)
	assert.Len(t, traceID, 32, "Expected trace ID length to be 32 hex characters (16 bytes)")

	explicit := SetTraceID(ctx, "req-42")
	assert.Equal(t, "req-42", GetTraceID(explicit))

	assert.Empty(t, GetTraceID(ctx), "Expected original context to remain unchanged")
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123) // Not a string
	assert.Empty(t, GetTraceID(ctx))
}

func TestNewTraceID(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id := NewTraceID()
		assert.Len(t, id, 32)
		_, err := hex.DecodeString(id)
		assert.NoError(t, err, "Expected valid hex string")
		assert.False(t, seen[id], "Expected all trace IDs to be unique")
		seen[id] = true
	}
}

func TestUserIDContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok, "the nil UUID is never a caller")

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
