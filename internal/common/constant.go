// Package common contains shared constants and sentinel errors used across
// gophtodo components.
package common

import "strings"

// TokenHeaderName is the HTTP header that carries the bearer token, both on
// inbound requests and on the login response.
const TokenHeaderName = "Auth"

// TokenMetadataKey is the gRPC metadata key that carries the bearer token.
// gRPC lower-cases metadata keys, so this is the header name in lower case.
const TokenMetadataKey = "auth"

// MetadataKey returns the gRPC metadata key for a token header name.
func MetadataKey(header string) string {
	return strings.ToLower(header)
}

// TokenTypeAuthentication labels tokens minted by a password login.
const TokenTypeAuthentication = "authentication"
