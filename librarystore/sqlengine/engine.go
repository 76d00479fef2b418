package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed    = "failed to build sql statement"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database statement execution failed"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgConstraintViolation = "constraint violation detected"
	logMsgBeginTxFailed       = "failed to begin transaction"
	logMsgCommitTxFailed      = "failed to commit transaction"
	logMsgRollbackTxFailed    = "failed to roll back transaction"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "librarystore operation: "
	logMsgTransactionDone     = "transaction committed"
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrOperation          = "operation"
	logAttrDurationMS         = "duration_ms"
	logAttrRowsAffected       = "rows_affected"
	logAttrRowCount           = "row_count"
)

// Store is the SQL implementation of the library storage. It runs on Postgres (through pgx, database/sql
// with lib/pq, or sqlx) and on SQLite (through database/sql with go-sqlite3).
//
// Single statements run directly on the connection. Multi-record mutations run through WithTransaction,
// which hands out a librarystore.Tx bound to one database transaction.
type Store struct {
	executor
	db adapters.DBAdapter
}

// executor runs statements on a connection or on an open transaction.
type executor struct {
	runner  adapters.Runner
	dialect Dialect
	obs     *observer
}

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithLogger sets the logger for the Store.
//
// Debug level: SQL statements with execution timing (development use)
// Info level: operation summaries like rows affected and transaction durations
// Warn level: non-critical issues like cleanup failures
// Error level: failures that cause an operation to fail.
func WithLogger(logger librarystore.Logger) Option {
	return func(s *Store) error {
		s.obs.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, which allows trace correlation of log records.
func WithContextualLogger(logger librarystore.ContextualLogger) Option {
	return func(s *Store) error {
		s.obs.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
func WithMetrics(collector librarystore.MetricsCollector) Option {
	return func(s *Store) error {
		s.obs.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
func WithTracing(collector librarystore.TracingCollector) Option {
	return func(s *Store) error {
		s.obs.tracingCollector = collector
		return nil
	}
}

// WithDialect overrides the dialect detected from the connection.
func WithDialect(dialect Dialect) Option {
	return func(s *Store) error {
		switch dialect {
		case DialectPostgres, DialectSQLite:
			s.dialect = dialect
			return nil
		default:
			return librarystore.ErrUnsupportedDialect
		}
	}
}

// NewStoreFromPGXPool creates a new Postgres Store using a pgx Pool.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, librarystore.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), DialectPostgres, options)
}

// NewStoreFromPGXPoolWithReplica creates a new Postgres Store with a primary pool for writes and
// strongly consistent reads, and a replica pool for reads whose context asks for eventual consistency.
func NewStoreFromPGXPoolWithReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Store, error) {
	if primary == nil || replica == nil {
		return Store{}, librarystore.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(primary, replica), DialectPostgres, options)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB. The dialect is detected from the driver,
// lib/pq and go-sqlite3 are recognised. Other drivers need WithDialect.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, librarystore.ErrNilDatabaseConnection
	}

	var dialect Dialect

	switch db.Driver().(type) {
	case *pq.Driver:
		dialect = DialectPostgres
	case *sqlite3.SQLiteDriver:
		dialect = DialectSQLite
	}

	return newStore(adapters.NewSQLAdapter(db), dialect, options)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB. The dialect is derived from the driver name.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, librarystore.ErrNilDatabaseConnection
	}

	dialect, _ := ParseDialect(db.DriverName())

	return newStore(adapters.NewSQLXAdapter(db), dialect, options)
}

func newStore(db adapters.DBAdapter, dialect Dialect, options []Option) (Store, error) {
	s := Store{
		executor: executor{runner: db, dialect: dialect, obs: &observer{}},
		db:       db,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	if s.dialect == "" {
		return Store{}, librarystore.ErrUnsupportedDialect
	}

	return s, nil
}

// Dialect returns the SQL dialect the Store generates.
func (s Store) Dialect() Dialect {
	return s.dialect
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// toSQL renders a goqu builder into an interpolated SQL string.
func (e executor) toSQL(ctx context.Context, operation string, builder sqlBuilder) (string, error) {
	sqlQuery, _, err := builder.ToSQL()
	if err != nil {
		e.obs.logError(ctx, logMsgBuildQueryFailed, err, logAttrOperation, operation)
		e.obs.recordError(ctx, operation, errorTypeBuildQuery)

		return "", errors.Join(librarystore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

// queryRows runs a select and calls scan once per row.
func (e executor) queryRows(
	ctx context.Context,
	operation string,
	builder sqlBuilder,
	scan func(rows adapters.DBRows) error,
) error {

	sqlQuery, err := e.toSQL(ctx, operation, builder)
	if err != nil {
		return err
	}

	ctx, span := e.obs.startSpan(ctx, spanNameQuery, operation, e.dialect)

	start := time.Now()
	rows, queryErr := e.runner.Query(ctx, sqlQuery)
	duration := time.Since(start)
	e.obs.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if queryErr != nil {
		e.obs.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrOperation, operation, logAttrQuery, sqlQuery)
		e.obs.recordError(ctx, operation, errorTypeDatabase)
		e.obs.recordDuration(ctx, metricQueryDuration, duration, operation, statusError)
		e.obs.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeDatabase})

		return errors.Join(librarystore.ErrQueryingFailed, queryErr)
	}
	defer e.closeRows(ctx, rows)

	count := 0
	for rows.Next() {
		if scanErr := scan(rows); scanErr != nil {
			e.obs.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, operation)
			e.obs.recordError(ctx, operation, errorTypeScan)
			e.obs.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeScan})

			return errors.Join(librarystore.ErrScanningRowFailed, scanErr)
		}

		count++
	}

	if iterErr := rows.Err(); iterErr != nil {
		e.obs.logError(ctx, logMsgDBQueryFailed, iterErr, logAttrOperation, operation)
		e.obs.recordError(ctx, operation, errorTypeDatabase)
		e.obs.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeDatabase})

		return errors.Join(librarystore.ErrQueryingFailed, iterErr)
	}

	e.obs.recordDuration(ctx, metricQueryDuration, duration, operation, statusSuccess)
	e.obs.recordValue(ctx, metricRowsReturned, float64(count), operation)
	e.obs.finishSpan(span, statusSuccess, nil)

	return nil
}

// queryOne runs a select that is expected to match at most one row.
// It returns librarystore.ErrRecordNotFound if nothing matched.
func (e executor) queryOne(
	ctx context.Context,
	operation string,
	builder sqlBuilder,
	scan func(rows adapters.DBRows) error,
) error {

	found := false

	err := e.queryRows(ctx, operation, builder, func(rows adapters.DBRows) error {
		found = true
		return scan(rows)
	})
	if err != nil {
		return err
	}

	if !found {
		return librarystore.ErrRecordNotFound
	}

	return nil
}

// exec runs an insert, update or delete and returns the number of affected rows.
// Known constraint violations are joined with their storage sentinel.
func (e executor) exec(ctx context.Context, operation string, builder sqlBuilder) (int64, error) {
	sqlQuery, err := e.toSQL(ctx, operation, builder)
	if err != nil {
		return 0, err
	}

	ctx, span := e.obs.startSpan(ctx, spanNameExec, operation, e.dialect)

	start := time.Now()
	result, execErr := e.runner.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	e.obs.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if execErr != nil {
		e.obs.recordDuration(ctx, metricExecDuration, duration, operation, statusError)

		if sentinel := classifyConstraintError(execErr); sentinel != nil {
			e.obs.logOperation(ctx, logMsgConstraintViolation, logAttrOperation, operation, logAttrError, sentinel.Error())
			e.obs.recordError(ctx, operation, errorTypeConstraint)
			e.obs.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeConstraint})

			return 0, errors.Join(sentinel, execErr)
		}

		e.obs.logError(ctx, logMsgDBExecFailed, execErr, logAttrOperation, operation, logAttrQuery, sqlQuery)
		e.obs.recordError(ctx, operation, errorTypeDatabase)
		e.obs.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeDatabase})

		return 0, errors.Join(librarystore.ErrExecutingFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		e.obs.logError(ctx, logMsgRowsAffectedFailed, rowsErr, logAttrOperation, operation)
		e.obs.recordError(ctx, operation, errorTypeRowsAffected)
		e.obs.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeRowsAffected})

		return 0, errors.Join(librarystore.ErrRowsAffectedFailed, rowsErr)
	}

	e.obs.recordDuration(ctx, metricExecDuration, duration, operation, statusSuccess)
	e.obs.finishSpan(span, statusSuccess, map[string]string{spanAttrRows: strconv.FormatInt(rowsAffected, 10)})

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (e executor) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.obs.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}
