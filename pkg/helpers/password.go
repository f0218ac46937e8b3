package helpers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost used for accounts created before the cost became configurable.
const DefaultBcryptCost = 10

var ErrEmptyPassword = errors.New("password must not be empty")

// PasswordHasher hashes and verifies plain text passwords using bcrypt.
// bcrypt embeds salt and cost in the hash, so Verify needs no configuration.
type PasswordHasher struct {
	Cost int
}

// NewPasswordHasher returns a hasher; costs outside bcrypt's range fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{Cost: cost}
}

// Hash hashes the plain text password
func (h *PasswordHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a bcrypt hash with a plain password
func (h *PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
