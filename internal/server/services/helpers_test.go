package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/cryptox"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/todos"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var cheapParams = cryptox.PasswordParams{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EncryptionKey = "test-encryption-key"
	cfg.SigningKey = "test-signing-key"
	cfg.StoreTimeout = time.Second
	return cfg
}

func newCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	c, err := auth.NewTokenCodec([]byte("test-encryption-key"), []byte("test-signing-key"), cryptox.AlgorithmAESGCM)
	require.NoError(t, err)
	return c
}

type env struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	codec  *auth.TokenCodec
	ledger *Ledger
	users  *UserService
	gate   *Gate
	todos  *TodoService
}

// newEnv wires the services over a migrated in-memory SQLite database.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := dbx.Open(ctx, dbx.DriverSQLite, "file:"+name+"?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewSQLRepositoryManager(dbx.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	return newEnvWith(t, db, rm)
}

func newEnvWith(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) *env {
	t.Helper()
	cfg := testConfig()
	codec := newCodec(t)
	ledger := NewLedger(db, rm)

	us := NewUserService(db, rm, codec, ledger, cfg, logging.Discard())
	us.params = cheapParams

	return &env{
		db:     db,
		rm:     rm,
		codec:  codec,
		ledger: ledger,
		users:  us,
		gate:   NewGate(db, rm, ledger, codec, cfg.StoreTimeout, logging.Discard()),
		todos:  NewTodoService(db, rm),
	}
}

// --- fakes ---

type fakeUsersRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
	getErr  error
	creates int
}

func newFakeUsers() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}, byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.creates++
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if u.ID == "" {
		u.ID = "u-" + u.Email
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeTokensRepo struct {
	records   map[string]*models.Token
	createErr error
	findErr   error
	deleteErr error
	// block makes Find wait for ctx to end.
	block bool
}

func newFakeTokens() *fakeTokensRepo {
	return &fakeTokensRepo{records: map[string]*models.Token{}}
}

func (f *fakeTokensRepo) Create(ctx context.Context, t *models.Token) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records[t.Fingerprint] = t
	return nil
}

func (f *fakeTokensRepo) Find(ctx context.Context, fp string) (*models.Token, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	if t, ok := f.records[fp]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTokensRepo) Delete(ctx context.Context, fp string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, fp)
	return nil
}

func (f *fakeTokensRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	for fp, t := range f.records {
		if t.UserID == userID {
			delete(f.records, fp)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTokensRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Tokens(db dbx.DBTX) tokens.Repository         { return m.t }
func (m *fakeRepoManager) Todos(db dbx.DBTX) todos.Repository           { return nil }

func newFakeEnv(t *testing.T) (*env, *fakeRepoManager) {
	t.Helper()
	rm := &fakeRepoManager{u: newFakeUsers(), t: newFakeTokens()}
	return newEnvWith(t, nil, rm), rm
}
