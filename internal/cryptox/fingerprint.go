package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the lowercase hex SHA-256 digest of s. It is used as a
// lookup key for bearer tokens, which are already high-entropy, so a fast
// hash is enough here.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
