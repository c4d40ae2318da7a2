package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Length limits for user fields.
const (
	MinPasswordLength = 8
	MaxEmailLength    = 254
	MaxNameLength     = 100
)

// User validation errors
var (
	ErrEmptyUserID         = NewValidationError("id", "user ID cannot be empty")
	ErrEmptyEmail          = NewValidationError("email", "email cannot be empty")
	ErrInvalidEmail        = NewValidationError("email", "invalid email format")
	ErrEmailTooLong        = NewValidationError("email", "email must be at most 254 characters")
	ErrPasswordTooShort    = NewValidationError("password", "password must be at least 8 characters long")
	ErrEmptyHashedPassword = NewValidationError("password", "hashed password cannot be empty")
	ErrNameTooLong         = NewValidationError("name", "names must be at most 100 characters")
)

// User represents a registered account. Every task belongs to exactly one User.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	IsActive       bool      `json:"is_active"`
	EmailVerified  bool      `json:"email_verified"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates an active, unverified User. The email is trimmed of
// surrounding whitespace but otherwise kept exactly as given; lookups are
// case-sensitive.
//
// The password is only checked for length here. The caller hashes it and
// sets HashedPassword before the user is stored.
func NewUser(email, password, firstName, lastName string) (*User, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.validateProfile(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims surrounding whitespace. Case is preserved.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// Validate checks a User that is about to be persisted.
func (u *User) Validate() error {
	if err := u.validateProfile(); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	return nil
}

func (u *User) validateProfile() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if len(u.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(u.FirstName) > MaxNameLength || utf8.RuneCountInString(u.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// validateEmailFormat requires a non-empty local part, a single @ and a
// domain containing a dot that is neither leading nor trailing.
func validateEmailFormat(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return false
	}

	domainPart := email[at+1:]
	if len(domainPart) < 3 {
		return false
	}

	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && !strings.HasSuffix(domainPart, ".")
}
