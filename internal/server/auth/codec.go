// Package auth builds and parses bearer tokens and carries the authenticated
// identity through request contexts.
//
// A token is an HS256 JWT whose only claim, "tkn", holds the base58 text of
// an AEAD-sealed JSON payload {"id": userID, "type": tokenType}. The
// signature is always verified before anything is decrypted.
package auth

import (
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
)

// Payload is the identity sealed inside a token.
type Payload struct {
	UserID string `json:"id"`
	Type   string `json:"type"`
}

type envelopeClaims struct {
	Sealed string `json:"tkn"`
	jwt.RegisteredClaims
}

// TokenCodec issues and parses tokens under two process-wide secrets: one
// for payload encryption, one for the signature. It is safe for concurrent
// use.
type TokenCodec struct {
	aead       cipher.AEAD
	signingKey []byte
	parser     *jwt.Parser
}

// NewTokenCodec builds a codec. Both secrets must be non-empty.
func NewTokenCodec(encryptionKey, signingKey []byte, alg cryptox.Algorithm) (*TokenCodec, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("empty signing secret")
	}
	aead, err := cryptox.NewAEAD(alg, encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("token cipher: %w", err)
	}

	return &TokenCodec{
		aead:       aead,
		signingKey: append([]byte(nil), signingKey...),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// IssueToken returns a signed token for userID. An empty tokenType yields
// common.ErrInvalidTokenType; no partial token is ever returned.
func (c *TokenCodec) IssueToken(userID, tokenType string) (string, error) {
	if tokenType == "" {
		return "", common.ErrInvalidTokenType
	}

	sealed, err := cryptox.SealJSON(c.aead, Payload{UserID: userID, Type: tokenType})
	if err != nil {
		return "", fmt.Errorf("seal token payload: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, envelopeClaims{Sealed: base58.Encode(sealed)})

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies and decrypts signed. Every failure, whatever its
// cause, is reported as common.ErrInvalidToken.
func (c *TokenCodec) ParseToken(signed string) (*Payload, error) {
	claims := &envelopeClaims{}

	token, err := c.parser.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		return c.signingKey, nil
	})
	if err != nil || !token.Valid || claims.Sealed == "" {
		return nil, common.ErrInvalidToken
	}

	sealed, err := base58.Decode(claims.Sealed)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	p := &Payload{}
	if err := cryptox.OpenJSON(c.aead, sealed, p); err != nil {
		return nil, common.ErrInvalidToken
	}
	if p.UserID == "" || p.Type == "" {
		return nil, common.ErrInvalidToken
	}

	return p, nil
}
