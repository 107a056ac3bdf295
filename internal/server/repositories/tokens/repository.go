// Package tokens stores revocation ledger records: one row per issued bearer
// token, keyed by the token's fingerprint. A token is live while its record
// exists.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/server/models"
)

// Repository defines operations for recording, looking up and revoking tokens.
type Repository interface {
	// Create stores a record for an issued token.
	Create(ctx context.Context, token *models.Token) error

	// Find looks up a record by fingerprint. Implementations return
	// common.ErrorNotFound when the token was never issued or was revoked.
	Find(ctx context.Context, fingerprint string) (*models.Token, error)

	// Delete removes a record by fingerprint. Deleting a non-existent
	// record is not an error.
	Delete(ctx context.Context, fingerprint string) error

	// DeleteByUser removes every record of userID and reports how many
	// were removed.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
