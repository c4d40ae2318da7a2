package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  Test@Example.com ", "password123", " Ada ", "Lovelace")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Test@Example.com", user.Email, "case is preserved, whitespace trimmed")
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.True(t, user.IsActive)
	assert.False(t, user.EmailVerified)
	assert.Empty(t, user.HashedPassword)
	assert.False(t, user.CreatedAt.IsZero())

	tests := []struct {
		name     string
		email    string
		password string
		first    string
		want     error
	}{
		{"empty email", "", "password123", "", ErrEmptyEmail},
		{"missing at", "invalidemail", "password123", "", ErrInvalidEmail},
		{"two ats", "a@b@c.com", "password123", "", ErrInvalidEmail},
		{"no domain dot", "a@bcd", "password123", "", ErrInvalidEmail},
		{"trailing dot", "a@b.c.", "password123", "", ErrInvalidEmail},
		{"inner space", "a b@c.com", "password123", "", ErrInvalidEmail},
		{"too long", strings.Repeat("a", MaxEmailLength) + "@x.com", "password123", "", ErrEmailTooLong},
		{"short password", "a@b.com", "short", "", ErrPasswordTooShort},
		{"long name", "a@b.com", "password123", strings.Repeat("n", MaxNameLength+1), ErrNameTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.email, tc.password, tc.first, "")
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserValidate(t *testing.T) {
	valid := User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: "$2a$12$abcdefghijklmnopqrstuv",
		IsActive:       true,
	}
	require.NoError(t, valid.Validate())

	noID := valid
	noID.ID = uuid.Nil
	assert.ErrorIs(t, noID.Validate(), ErrEmptyUserID)

	noHash := valid
	noHash.HashedPassword = ""
	assert.ErrorIs(t, noHash.Validate(), ErrEmptyHashedPassword)
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "title: title cannot be empty", ErrTitleEmpty.Error())
	assert.Equal(t, "oops", NewValidationError("", "oops").Error())
}
