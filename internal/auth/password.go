package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost the registration flow has always used.
const DefaultBcryptCost = 10

var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("internlog-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns ErrPasswordMismatch when password does not match hash.
func (h *PasswordHasher) Verify(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// Burn runs a comparison against a fixed hash so an unknown account costs as much as a
// wrong password.
func (h *PasswordHasher) Burn(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
