// Package settings stores image browser settings in the browser's SQLite
// database. Each row of global_setting holds one named JSON document.
package settings

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/agentstation/iibkit/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a settings store backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Compile-time checks that both stores implement Tx.
var (
	_ Tx = (*Store)(nil)
	_ Tx = (*txStore)(nil)
)

// Open opens the SQLite database at path, creating the file if needed, and
// brings the schema up to date. An existing global_setting table is kept.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.NewValidationError("path", path, "database path cannot be empty")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.WrapResource("open", "database", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.WrapResource("open", "database", path, err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, errors.WrapResource("migrate", "database", path, err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an open handle without running migrations.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func runMigrations(db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// newMigrator binds the embedded migrations to db. The down migration never
// drops global_setting, which belongs to the browser.
func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the named setting or a NotFoundError.
func (s *Store) Get(ctx context.Context, name string) (*Setting, error) {
	return queryGetSetting(ctx, s.db, name)
}

// Put inserts or replaces a setting.
func (s *Store) Put(ctx context.Context, setting *Setting) error {
	return queryPutSetting(ctx, s.db, setting)
}

// List returns the settings whose names start with prefix, ordered by name.
func (s *Store) List(ctx context.Context, prefix string) ([]*Setting, error) {
	return queryListSettings(ctx, s.db, prefix)
}

// RunInTransaction begins a transaction, calls fn with a Tx bound to it,
// and commits on success or rolls back on error.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&txStore{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements Tx using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

func (s *txStore) Get(ctx context.Context, name string) (*Setting, error) {
	return queryGetSetting(ctx, s.tx, name)
}

func (s *txStore) Put(ctx context.Context, setting *Setting) error {
	return queryPutSetting(ctx, s.tx, setting)
}

func (s *txStore) List(ctx context.Context, prefix string) ([]*Setting, error) {
	return queryListSettings(ctx, s.tx, prefix)
}
