// Package auth hashes and verifies user passwords.
//
// Passwords are stored as bcrypt hashes, in the form
//
//	$2a$12$<22-char salt><31-char hash>
//
// so the salt and cost travel with the hash and no extra column is needed.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/sportsforum/internal/apperror"
)

// DefaultCost is the bcrypt work factor used outside tests.
const DefaultCost = 12

// maxPasswordBytes is bcrypt's input limit; longer input would be truncated.
const maxPasswordBytes = 72

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService provides bcrypt hashing and verification.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given cost. A cost
// outside bcrypt's accepted range falls back to DefaultCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
// Empty passwords and passwords over 72 bytes are rejected with
// apperror.ErrValidation.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", apperror.ValidationFailed("password", "password is required")
	}
	if len(plaintext) > maxPasswordBytes {
		return "", apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// It returns nil on a match and ErrPasswordMismatch on a wrong password.
// The comparison is constant time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
