// Package common defines shared constants and sentinel errors used across
// client and server layers of gophtodo. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrStoreUnavailable reports a backing store that failed, timed out or
	// was cancelled. It never reaches a client verbatim.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Credential errors. Unknown email and wrong password are the same error.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password length")
	ErrInvalidEmail       = errors.New("invalid email")

	// Token errors (bad signature, undecryptable or malformed payload).
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
)
