package auth

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/server/models"
)

// Identity is what a successful authentication attaches to a request: the
// resolved user and the ledger record of the token that was presented.
type Identity struct {
	User  *models.User
	Token *models.Token
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the identity.
func WithIdentity(ctx context.Context, user *models.User, token *models.Token) context.Context {
	return context.WithValue(ctx, identityKey{}, Identity{User: user, Token: token})
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.User == nil {
		return Identity{}, false
	}
	return id, true
}
