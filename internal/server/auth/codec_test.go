package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/cryptox"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, enc, sig string, alg cryptox.Algorithm) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec([]byte(enc), []byte(sig), alg)
	require.NoError(t, err)
	return c
}

func TestIssueParse_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range []cryptox.Algorithm{cryptox.AlgorithmAESGCM, cryptox.AlgorithmChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			c := newCodec(t, "enc-secret", "sig-secret", alg)

			tok, err := c.IssueToken("user-123", common.TokenTypeAuthentication)
			require.NoError(t, err)
			assert.Equal(t, 2, strings.Count(tok, "."))

			p, err := c.ParseToken(tok)
			require.NoError(t, err)
			assert.Equal(t, "user-123", p.UserID)
			assert.Equal(t, common.TokenTypeAuthentication, p.Type)
		})
	}
}

func TestIssueToken_FreshNoncePerToken(t *testing.T) {
	c := newCodec(t, "enc", "sig", "")

	a, err := c.IssueToken("u1", "authentication")
	require.NoError(t, err)
	b, err := c.IssueToken("u1", "authentication")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssueToken_EmptyType(t *testing.T) {
	c := newCodec(t, "enc", "sig", "")

	tok, err := c.IssueToken("u1", "")
	assert.ErrorIs(t, err, common.ErrInvalidTokenType)
	assert.Empty(t, tok)
}

func TestParseToken_TamperedAnywhere(t *testing.T) {
	c := newCodec(t, "enc", "sig", "")
	tok, err := c.IssueToken("u1", "authentication")
	require.NoError(t, err)

	for i := 0; i < len(tok); i++ {
		if tok[i] == '.' {
			continue
		}
		repl := byte('A')
		if tok[i] == 'A' {
			repl = 'B'
		}
		mutated := tok[:i] + string(repl) + tok[i+1:]

		_, err := c.ParseToken(mutated)
		require.ErrorIs(t, err, common.ErrInvalidToken, "mutation at %d accepted", i)
	}
}

func TestParseToken_WrongKeys(t *testing.T) {
	issuer := newCodec(t, "enc", "sig", "")
	tok, err := issuer.IssueToken("u1", "authentication")
	require.NoError(t, err)

	_, err = newCodec(t, "enc", "other-sig", "").ParseToken(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = newCodec(t, "other-enc", "sig", "").ParseToken(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = newCodec(t, "enc", "sig", cryptox.AlgorithmChaCha20).ParseToken(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

// A correctly signed envelope around a forged payload is still rejected.
func TestParseToken_ValidSignatureForgedPayload(t *testing.T) {
	c := newCodec(t, "enc", "sig", "")

	sign := func(sealed string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, envelopeClaims{Sealed: sealed}).SignedString([]byte("sig"))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name   string
		sealed string
	}{
		{name: "empty claim", sealed: ""},
		{name: "not base58", sealed: "0OIl"},
		{name: "too short", sealed: base58.Encode([]byte("abc"))},
		{name: "garbage ciphertext", sealed: base58.Encode(make([]byte, 64))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ParseToken(sign(tt.sealed))
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	c := newCodec(t, "enc", "sig", "")

	aead, err := cryptox.NewAEAD(cryptox.AlgorithmAESGCM, []byte("enc"))
	require.NoError(t, err)
	sealed, err := cryptox.SealJSON(aead, Payload{UserID: "u1", Type: "authentication"})
	require.NoError(t, err)

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, envelopeClaims{Sealed: base58.Encode(sealed)}).SignedString([]byte("sig"))
	require.NoError(t, err)

	_, err = c.ParseToken(s)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, envelopeClaims{Sealed: base58.Encode(sealed)}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.ParseToken(none)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	c := newCodec(t, "enc", "sig", "")

	for _, in := range []string{"", "abc", "a.b.c", "..."} {
		_, err := c.ParseToken(in)
		assert.ErrorIs(t, err, common.ErrInvalidToken, in)
	}
}

func TestNewTokenCodec_Errors(t *testing.T) {
	_, err := NewTokenCodec([]byte("enc"), nil, "")
	assert.Error(t, err)

	_, err = NewTokenCodec(nil, []byte("sig"), "")
	assert.Error(t, err)

	_, err = NewTokenCodec([]byte("enc"), []byte("sig"), "rot13")
	assert.Error(t, err)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	u := &models.User{ID: "u1"}
	tk := &models.Token{Fingerprint: "fp"}
	ctx := WithIdentity(context.Background(), u, tk)

	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, u, id.User)
	assert.Same(t, tk, id.Token)
}
