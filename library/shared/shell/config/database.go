package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
)

const (
	defaultMaxConnections    = int32(8)
	defaultMinConnections    = int32(2)
	defaultMaxOpenConns      = 50
	defaultMaxIdleConns      = 10
	defaultSQLiteOpenConns   = 8
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = 5 * time.Minute
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = 5 * time.Second
)

var ErrOpeningDatabaseFailed = errors.New("opening the database failed")

// PostgresPGXPoolConfig creates a pgxpool.Config for dsn with the service's pool limits.
func PostgresPGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// PostgresSQLDB opens a *sql.DB on lib/pq. It does not connect yet.
func PostgresSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	return db, nil
}

// PostgresSQLX opens a *sqlx.DB on lib/pq. It does not connect yet.
func PostgresSQLX(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	return db, nil
}

// SQLiteDB opens a *sql.DB on go-sqlite3.
func SQLiteDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	db.SetMaxOpenConns(defaultSQLiteOpenConns)

	return db, nil
}

// Database is an opened, reachable store plus the connections behind it.
type Database struct {
	Store   sqlengine.Store
	closers []func()
}

// Close releases all connections.
func (d Database) Close() {
	for _, closeFn := range d.closers {
		closeFn()
	}
}

type pinger func(ctx context.Context) error

// OpenDatabase connects to the database configured in cfg, waiting for it with exponential backoff,
// and creates the store on top of it.
func OpenDatabase(
	ctx context.Context,
	cfg Config,
	logger shell.ContextualLogger,
	storeOptions ...sqlengine.Option,
) (Database, error) {

	var (
		database Database
		pings    []pinger
		err      error
	)

	switch {
	case cfg.Dialect == sqlengine.DialectSQLite:
		var db *sql.DB
		if db, err = SQLiteDB(cfg.DSN); err != nil {
			return Database{}, err
		}

		database.closers = append(database.closers, func() { _ = db.Close() })
		pings = append(pings, db.PingContext)
		database.Store, err = sqlengine.NewStoreFromSQLDB(db, storeOptions...)

	case cfg.PGAdapter == AdapterSQL:
		var db *sql.DB
		if db, err = PostgresSQLDB(cfg.DSN); err != nil {
			return Database{}, err
		}

		database.closers = append(database.closers, func() { _ = db.Close() })
		pings = append(pings, db.PingContext)
		database.Store, err = sqlengine.NewStoreFromSQLDB(db, storeOptions...)

	case cfg.PGAdapter == AdapterSQLX:
		var db *sqlx.DB
		if db, err = PostgresSQLX(cfg.DSN); err != nil {
			return Database{}, err
		}

		database.closers = append(database.closers, func() { _ = db.Close() })
		pings = append(pings, db.PingContext)
		database.Store, err = sqlengine.NewStoreFromSQLX(db, storeOptions...)

	default:
		database, pings, err = openPGX(ctx, cfg, storeOptions)
	}

	if err != nil {
		database.Close()
		return Database{}, err
	}

	waitErr := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		for _, ping := range pings {
			if pingErr := ping(ctx); pingErr != nil {
				return pingErr
			}
		}

		return nil
	}, shell.WithRetryLogging(logger))

	if waitErr != nil {
		database.Close()
		return Database{}, fmt.Errorf("waiting for the database: %w", waitErr)
	}

	return database, nil
}

func openPGX(ctx context.Context, cfg Config, storeOptions []sqlengine.Option) (Database, []pinger, error) {
	var database Database

	primary, err := newPGXPool(ctx, cfg.DSN)
	if err != nil {
		return database, nil, err
	}

	database.closers = append(database.closers, primary.Close)

	if cfg.ReplicaDSN == "" {
		database.Store, err = sqlengine.NewStoreFromPGXPool(primary, storeOptions...)

		return database, []pinger{primary.Ping}, err
	}

	replica, err := newPGXPool(ctx, cfg.ReplicaDSN)
	if err != nil {
		return database, nil, err
	}

	database.closers = append(database.closers, replica.Close)
	database.Store, err = sqlengine.NewStoreFromPGXPoolWithReplica(primary, replica, storeOptions...)

	return database, []pinger{primary.Ping, replica.Ping}, err
}

func newPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := PostgresPGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	return pool, nil
}
