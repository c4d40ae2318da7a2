package auth

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MaxHashableBytes is the number of input bytes bcrypt actually uses.
const MaxHashableBytes = 72

// PasswordHasher hashes secrets and checks secrets against stored digests.
type PasswordHasher interface {
	// Hash returns a self-describing digest (algorithm, cost and salt embedded).
	Hash(secret string) (string, error)

	// Verify reports whether secret matches digest. Any failure, including a
	// malformed digest, yields false.
	Verify(secret, digest string) bool
}

// ReduceToHashableBytes returns the bytes of secret that are fed to bcrypt.
// Input longer than MaxHashableBytes is cut at that length and any multi-byte
// character left incomplete by the cut is dropped, so the result is always
// valid UTF-8. Hash and Verify both go through this function, which keeps
// hashing and verification consistent for any input.
func ReduceToHashableBytes(secret string) []byte {
	b := []byte(secret)
	if len(b) <= MaxHashableBytes {
		return b
	}

	b = b[:MaxHashableBytes]

	// Find where the last character starts and drop it if the cut split it.
	start := len(b) - 1
	for start > 0 && start > len(b)-utf8.UTFMax && !utf8.RuneStart(b[start]) {
		start--
	}
	if utf8.RuneStart(b[start]) && !utf8.FullRune(b[start:]) {
		b = b[:start]
	}
	return b
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a BcryptHasher with the given cost factor.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Cost returns the configured cost factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash implements PasswordHasher.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(ReduceToHashableBytes(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify implements PasswordHasher.
func (h *BcryptHasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), ReduceToHashableBytes(secret)) == nil
}
