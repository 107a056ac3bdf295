package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Algorithm names an AEAD construction for token payloads.
type Algorithm string

const (
	AlgorithmAESGCM   Algorithm = "aes-256-gcm"
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

const keyInfo = "gophtodo/token-payload/v1"

var errShortCiphertext = errors.New("ciphertext too short")

// NewAEAD derives a 256-bit key from secret with HKDF-SHA256 and builds the
// requested AEAD. The secret is expected to be a long random string taken
// from configuration.
func NewAEAD(alg Algorithm, secret []byte) (cipher.AEAD, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty encryption secret")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer WipeByteArray(key)

	switch alg {
	case AlgorithmAESGCM, "":
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case AlgorithmChaCha20:
		return chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("unsupported cipher %q", alg)
	}
}

// Seal encrypts plaintext with a random nonce and returns nonce||ciphertext.
func Seal(aead cipher.AEAD, plaintext []byte) ([]byte, error) {
	nonce, err := RandomBytes(aead.NonceSize())
	if err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(aead cipher.AEAD, sealed []byte) ([]byte, error) {
	n := aead.NonceSize()
	if len(sealed) < n+aead.Overhead() {
		return nil, errShortCiphertext
	}
	return aead.Open(nil, sealed[:n], sealed[n:], nil)
}

// SealJSON serializes v to JSON and seals it.
func SealJSON(aead cipher.AEAD, v any) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	defer WipeByteArray(plaintext)
	return Seal(aead, plaintext)
}

// OpenJSON opens sealed and unmarshals the plaintext into v.
func OpenJSON(aead cipher.AEAD, sealed []byte, v any) error {
	plaintext, err := Open(aead, sealed)
	if err != nil {
		return err
	}
	defer WipeByteArray(plaintext)
	return json.Unmarshal(plaintext, v)
}
