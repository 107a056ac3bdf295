package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/todos"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewSQLRepositoryManager(t *testing.T) {
	m, err := NewSQLRepositoryManager(dbx.DriverPostgres)
	require.NoError(t, err)
	var _ RepositoryManager = m

	_, err = NewSQLRepositoryManager("mysql")
	require.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	for _, driver := range []string{dbx.DriverPostgres, dbx.DriverSQLite} {
		m, err := NewSQLRepositoryManager(driver)
		require.NoError(t, err)

		var _ users.Repository = m.Users(db)
		var _ tokens.Repository = m.Tokens(db)
		var _ todos.Repository = m.Todos(db)

		assert.IsType(t, &users.SQLRepository{}, m.Users(db), driver)
		assert.IsType(t, &tokens.SQLRepository{}, m.Tokens(db), driver)
		assert.IsType(t, &todos.SQLRepository{}, m.Todos(db), driver)
	}
}

type stubTokens struct{ tokens.Repository }

func TestWithTokenStore_Overrides(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	store := &stubTokens{}
	m, err := NewSQLRepositoryManager(dbx.DriverSQLite)
	require.NoError(t, err)
	m.WithTokenStore(store)

	assert.Same(t, store, m.Tokens(db))
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var gotDir string
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m, _ := NewSQLRepositoryManager(dbx.DriverPostgres)
	require.NoError(t, m.RunMigrations(context.Background(), db))
	assert.Equal(t, "postgres", gotDir)

	m, _ = NewSQLRepositoryManager(dbx.DriverSQLite)
	require.NoError(t, m.RunMigrations(context.Background(), db))
	assert.Equal(t, "sqlite", gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m, _ := NewSQLRepositoryManager(dbx.DriverPostgres)
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

// The embedded SQLite migrations apply cleanly and the repositories work
// against the resulting schema through the placeholder adapter.
func TestSQLite_EndToEnd(t *testing.T) {
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := NewSQLRepositoryManager(dbx.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))

	u, err := m.Users(db).Create(ctx, &models.User{Email: "a@b.test", Salt: []byte("s"), PasswordHash: []byte("h")})
	require.NoError(t, err)

	got, err := m.Users(db).GetByEmail(ctx, "a@b.test")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, m.Tokens(db).Create(ctx, &models.Token{Fingerprint: "fp", UserID: u.ID}))
	rec, err := m.Tokens(db).Find(ctx, "fp")
	require.NoError(t, err)
	assert.Equal(t, u.ID, rec.UserID)

	todo, err := m.Todos(db).Create(ctx, &models.Todo{UserID: u.ID, Description: "Buy milk"})
	require.NoError(t, err)
	assert.NotZero(t, todo.ID)

	done := false
	list, err := m.Todos(db).List(ctx, u.ID, models.TodoFilter{Completed: &done, Query: "milk"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Buy milk", list[0].Description)
}
