// Package kdf derives symmetric keys from passwords.
//
// Keys are produced with PBKDF2 over HMAC-SHA256. The iteration count and key size
// are part of the container format: changing either makes existing containers unreadable.
package kdf

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 iteration count used for every container.
	Iterations = 100_000
	// KeySize is the derived key length, sized for AES-256.
	KeySize = 32
	// SaltSize is the length of the random salt stored in each container.
	SaltSize = 16
)

// Derive returns the 32-byte key for password and salt.
// The empty password is accepted.
func Derive(password, salt []byte) []byte {
	return Key(password, salt, Iterations)
}

// Key runs PBKDF2-HMAC-SHA256 with an explicit iteration count and returns KeySize bytes.
func Key(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
}
