package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/cryptox"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
)

// Ledger is the revocation ledger: a bearer token is live exactly while a
// record keyed by its fingerprint exists. Only the Ledger writes records.
type Ledger struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLedger(db *sql.DB, m repomanager.RepositoryManager) *Ledger {
	return &Ledger{db: db, repomanager: m}
}

// Record makes signed live for userID.
func (l *Ledger) Record(ctx context.Context, signed, userID string) (*models.Token, error) {
	record := &models.Token{Fingerprint: cryptox.Fingerprint(signed), UserID: userID}

	if err := l.repomanager.Tokens(l.db).Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return record, nil
}

// IsLive reports whether signed has a record. A missing record is not an
// error; a failing store is ErrStoreUnavailable.
func (l *Ledger) IsLive(ctx context.Context, signed string) (*models.Token, bool, error) {
	record, err := l.repomanager.Tokens(l.db).Find(ctx, cryptox.Fingerprint(signed))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return record, true, nil
}

// Revoke deletes record. Revoking an already revoked token is a no-op.
func (l *Ledger) Revoke(ctx context.Context, record *models.Token) error {
	if record == nil {
		return nil
	}
	if err := l.repomanager.Tokens(l.db).Delete(ctx, record.Fingerprint); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return nil
}

// RevokeAll deletes every record of userID and returns how many were live.
func (l *Ledger) RevokeAll(ctx context.Context, userID string) (int64, error) {
	n, err := l.repomanager.Tokens(l.db).DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return n, nil
}
