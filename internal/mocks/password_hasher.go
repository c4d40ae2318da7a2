package mocks

import "github.com/phrazzld/todo-api/internal/service/auth"

// MockPasswordHasher implements auth.PasswordHasher for testing. By default
// Hash returns "hashed:"+secret and Verify compares against that form.
type MockPasswordHasher struct {
	HashFn   func(secret string) (string, error)
	VerifyFn func(secret, digest string) bool

	// VerifyCalls counts Verify invocations, including those on unknown accounts.
	VerifyCalls int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(secret string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(secret)
	}
	return "hashed:" + secret, nil
}

// Verify implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Verify(secret, digest string) bool {
	m.VerifyCalls++
	if m.VerifyFn != nil {
		return m.VerifyFn(secret, digest)
	}
	return digest == "hashed:"+secret
}
