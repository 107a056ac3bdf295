// Package repomanager provides a concrete RepositoryManager for the supported
// SQL drivers, wiring together repository constructors and database
// migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/server/migrations"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/todos"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends SQL-backed repository implementations for one
// driver and exposes a schema migration hook. The token store can be
// replaced with a non-SQL implementation via WithTokenStore.
type SQLRepositoryManager struct {
	driver     string
	tokenStore tokens.Repository
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

// Tokens returns the configured token store, or a tokens.Repository bound
// to the provided DBTX.
func (m *SQLRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	if m.tokenStore != nil {
		return m.tokenStore
	}
	return tokens.NewSQLRepository(db)
}

// Todos returns a todos.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Todos(db dbx.DBTX) todos.Repository {
	return todos.NewSQLRepository(db)
}

// WithTokenStore makes Tokens return store regardless of the DBTX passed.
func (m *SQLRepositoryManager) WithTokenStore(store tokens.Repository) *SQLRepositoryManager {
	m.tokenStore = store
	return m
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations for the driver's
// dialect and runs them against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	dialect := gooseDialect(m.driver)

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, migrations.Dir(dialect)); err != nil {
		return err
	}
	return nil
}

func gooseDialect(driver string) string {
	if driver == dbx.DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// NewSQLRepositoryManager constructs a RepositoryManager for driver.
func NewSQLRepositoryManager(driver string) (*SQLRepositoryManager, error) {
	switch driver {
	case dbx.DriverPostgres, dbx.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return &SQLRepositoryManager{driver: driver}, nil
}
