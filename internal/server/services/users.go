// Package services contains server-side business logic. This file implements
// UserService: the credential store (registration, password setting and
// verification) and password login that mints a recorded bearer token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/cryptox"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/semaphore"
)

// UserService owns user credentials. Password derivation is deliberately
// slow, so at most HashConcurrency derivations run at once.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.TokenCodec
	ledger      *Ledger
	logger      logging.Logger

	params    cryptox.PasswordParams
	minLength int
	maxLength int
	hashSlots *semaphore.Weighted
	validate  *validator.Validate
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.TokenCodec, ledger *Ledger, cfg *config.Config, logger logging.Logger) *UserService {
	slots := int64(cfg.HashConcurrency)
	if slots < 1 {
		slots = 1
	}
	return &UserService{
		db:          db,
		repomanager: m,
		codec:       codec,
		ledger:      ledger,
		logger:      logger,
		params:      cryptox.DefaultPasswordParams,
		minLength:   cfg.PasswordMinLength,
		maxLength:   cfg.PasswordMaxLength,
		hashSlots:   semaphore.NewWeighted(slots),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// WithPasswordParams overrides the argon2id cost parameters. Hashes made
// with other parameters no longer verify.
func (s *UserService) WithPasswordParams(p cryptox.PasswordParams) *UserService {
	s.params = p
	return s
}

// NormalizeEmail trims and lower-cases an email address. Every lookup and
// insert goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword validates plaintext length (in characters), draws a fresh salt
// and assigns the salt and derived hash to user together. On error user is
// left unchanged.
func (s *UserService) SetPassword(ctx context.Context, user *models.User, plaintext string) error {
	n := utf8.RuneCountInString(plaintext)
	if n < s.minLength || n > s.maxLength {
		return common.ErrInvalidPassword
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	hash, err := s.derive(ctx, []byte(plaintext), salt)
	if err != nil {
		return err
	}

	user.Salt, user.PasswordHash = salt, hash
	return nil
}

// Register creates a user. The password is validated and hashed before
// anything is written.
func (s *UserService) Register(ctx context.Context, email, plaintext string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, common.ErrInvalidEmail
	}

	user := &models.User{Email: email}
	if err := s.SetPassword(ctx, user, plaintext); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate returns the user whose stored hash matches plaintext. An
// unknown email and a wrong password both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, plaintext string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}

	ok, err := s.verify(ctx, []byte(plaintext), user.Salt, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates the user, issues an authentication token and records
// it in the ledger. The token is only returned once it is live.
func (s *UserService) Login(ctx context.Context, email, plaintext string) (*models.User, string, error) {
	user, err := s.Authenticate(ctx, email, plaintext)
	if err != nil {
		return nil, "", err
	}

	token, err := s.codec.IssueToken(user.ID, common.TokenTypeAuthentication)
	if err != nil {
		s.logger.Error(ctx, "issue token failed", "user_id", user.ID, "error", err)
		return nil, "", common.ErrorInternal
	}

	if _, err := s.ledger.Record(ctx, token, user.ID); err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *UserService) derive(ctx context.Context, plaintext, salt []byte) ([]byte, error) {
	if err := s.hashSlots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for hashing slot: %w", err)
	}
	defer s.hashSlots.Release(1)

	return cryptox.DerivePasswordHash(plaintext, salt, s.params), nil
}

func (s *UserService) verify(ctx context.Context, plaintext, salt, hash []byte) (bool, error) {
	if err := s.hashSlots.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("wait for hashing slot: %w", err)
	}
	defer s.hashSlots.Release(1)

	return cryptox.VerifyPassword(plaintext, salt, hash, s.params), nil
}
