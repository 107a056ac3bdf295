// Package cryptox collects the cryptographic primitives used by the server:
// the slow password derivation, the AEAD used for token payloads, and the
// fast fingerprint used to look tokens up.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of a freshly generated password salt.
const SaltSize = 16

// PasswordParams are the argon2id cost parameters.
type PasswordParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultPasswordParams follow the RFC 9106 second recommended option.
var DefaultPasswordParams = PasswordParams{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return b, nil
}

// NewSalt returns a fresh random salt.
func NewSalt() ([]byte, error) {
	return RandomBytes(SaltSize)
}

// DerivePasswordHash stretches password with salt using argon2id.
func DerivePasswordHash(password, salt []byte, p PasswordParams) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// VerifyPassword re-derives the hash for password and compares it with the
// stored one in constant time.
func VerifyPassword(password, salt, hash []byte, p PasswordParams) bool {
	candidate := DerivePasswordHash(password, salt, p)
	defer WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}

// WipeByteArray overwrites b with zeros. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
