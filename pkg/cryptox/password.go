// Package cryptox wraps password hashing so the rest of the codebase never
// touches bcrypt directly.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password we accept. bcrypt silently ignores
// everything past 72 bytes, so anything longer is rejected up front instead.
const MaxPasswordBytes = 72

var (
	// ErrPasswordTooLong reports a password exceeding MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("cryptox: password exceeds 72 bytes")

	// ErrPasswordMismatch reports a failed verification. Callers should not
	// surface this distinctly from "no such user".
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
)

// HashPassword returns a salted bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
// A malformed hash behaves like a mismatch; it never panics.
func VerifyPassword(password, encodedHash string) error {
	if len(password) > MaxPasswordBytes {
		return ErrPasswordMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
