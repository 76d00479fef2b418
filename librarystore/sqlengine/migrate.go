package sqlengine

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

//go:embed migrations
var migrationFiles embed.FS

// MigrateUp applies all pending schema migrations for the given dialect.
// It opens its own connection from dsn and closes it before returning.
func MigrateUp(dialect Dialect, dsn string) error {
	m, err := newMigrator(dialect, dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if upErr := m.Up(); upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", upErr)
	}

	return nil
}

// MigrateDown reverts all schema migrations for the given dialect.
func MigrateDown(dialect Dialect, dsn string) error {
	m, err := newMigrator(dialect, dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if downErr := m.Down(); downErr != nil && !errors.Is(downErr, migrate.ErrNoChange) {
		return fmt.Errorf("reverting migrations: %w", downErr)
	}

	return nil
}

func newMigrator(dialect Dialect, dsn string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations/"+string(dialect))
	if err != nil {
		return nil, errors.Join(librarystore.ErrUnsupportedDialect, err)
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening migration connection: %w", err)
	}

	var driver migratedb.Driver

	switch dialect {
	case DialectPostgres:
		driver, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	case DialectSQLite:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		err = librarystore.ErrUnsupportedDialect
	}

	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(dialect), driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}

	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	_, _ = m.Close()
}
