package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
)

// Outcome is the result of authenticating one request.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeNotLive
	OutcomeInvalidToken
	OutcomeUnknownUser
	OutcomeStoreUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeNotLive:
		return "not_live"
	case OutcomeInvalidToken:
		return "invalid_token"
	case OutcomeUnknownUser:
		return "unknown_user"
	case OutcomeStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// Decision is the tagged result of Gate.Decide. User and Token are set only
// for OutcomeAccepted.
type Decision struct {
	Outcome Outcome
	User    *models.User
	Token   *models.Token
}

// Accepted reports whether the request may proceed.
func (d Decision) Accepted() bool {
	return d.Outcome == OutcomeAccepted
}

// Gate turns a raw bearer token into an authenticated identity. It keeps no
// per-request state and caches nothing.
type Gate struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	ledger       *Ledger
	codec        *auth.TokenCodec
	storeTimeout time.Duration
	logger       logging.Logger
}

func NewGate(db *sql.DB, m repomanager.RepositoryManager, ledger *Ledger, codec *auth.TokenCodec, storeTimeout time.Duration, logger logging.Logger) *Gate {
	return &Gate{
		db:           db,
		repomanager:  m,
		ledger:       ledger,
		codec:        codec,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// Decide runs the authentication procedure: the token must be live in the
// ledger, must verify and decrypt, and must name an existing user. Any store
// failure, including a timeout or cancellation, rejects the request.
func (g *Gate) Decide(ctx context.Context, rawToken string) Decision {
	if rawToken == "" {
		return Decision{Outcome: OutcomeNotLive}
	}

	record, live, err := g.isLive(ctx, rawToken)
	if err != nil {
		return Decision{Outcome: OutcomeStoreUnavailable}
	}
	if !live {
		return Decision{Outcome: OutcomeNotLive}
	}

	payload, err := g.codec.ParseToken(rawToken)
	if err != nil || payload.UserID != record.UserID {
		return Decision{Outcome: OutcomeInvalidToken}
	}

	user, err := g.findUser(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Decision{Outcome: OutcomeUnknownUser}
		}
		return Decision{Outcome: OutcomeStoreUnavailable}
	}

	return Decision{Outcome: OutcomeAccepted, User: user, Token: record}
}

// RequireAuthentication is Decide for transports: every rejection is the same
// ErrorUnauthorized, and the reason is only logged at debug level.
func (g *Gate) RequireAuthentication(ctx context.Context, rawToken string) (*models.User, *models.Token, error) {
	d := g.Decide(ctx, rawToken)
	if !d.Accepted() {
		g.logger.Debug(ctx, "authentication rejected", "reason", d.Outcome.String())
		return nil, nil, common.ErrorUnauthorized
	}
	return d.User, d.Token, nil
}

// Logout revokes the token the request was authenticated with.
func (g *Gate) Logout(ctx context.Context, record *models.Token) error {
	return g.ledger.Revoke(ctx, record)
}

// LogoutAll revokes every live token of userID.
func (g *Gate) LogoutAll(ctx context.Context, userID string) (int64, error) {
	return g.ledger.RevokeAll(ctx, userID)
}

func (g *Gate) isLive(ctx context.Context, rawToken string) (*models.Token, bool, error) {
	ctx, cancel := g.withStoreTimeout(ctx)
	defer cancel()
	return g.ledger.IsLive(ctx, rawToken)
}

func (g *Gate) findUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := g.withStoreTimeout(ctx)
	defer cancel()
	return g.repomanager.Users(g.db).GetByID(ctx, id)
}

func (g *Gate) withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.storeTimeout)
}
