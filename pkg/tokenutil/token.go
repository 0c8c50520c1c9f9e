package tokenutil

import (
	"crypto/rand"
	"encoding/hex"
)

// Generate returns a 64-character hex string backed by 256 bits of
// crypto/rand entropy. Used as an opaque single-use lookup key for invitation
// and email-verification links; uniqueness relies on entropy, not a database
// constraint.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// TempPassword returns a short random credential for accounts created on
// behalf of a parent. It is delivered once by email and stored only as a
// bcrypt hash.
func TempPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
