package librarystore

import (
	"errors"
)

var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")

var ErrBuildingQueryFailed = errors.New("building the sql query failed")
var ErrQueryingFailed = errors.New("querying the database failed")
var ErrExecutingFailed = errors.New("executing the sql statement failed")
var ErrScanningRowFailed = errors.New("scanning a database row failed")
var ErrRowsAffectedFailed = errors.New("reading the rows affected count failed")
var ErrTransactionFailed = errors.New("the database transaction failed")

// ErrRecordNotFound is returned by single-record lookups that matched no row.
var ErrRecordNotFound = errors.New("record not found")

// ErrConcurrencyConflict is returned when a compare-and-set update affected no rows
// because the record changed after it was read.
var ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

// Unique constraint violations, recognised independently of the driver in use.
var (
	ErrDuplicateEmail        = errors.New("duplicate user email")
	ErrDuplicateUniversityID = errors.New("duplicate user university id")
	ErrDuplicateISBN         = errors.New("duplicate book isbn")
	ErrDuplicateAuthorName   = errors.New("duplicate author name")
	ErrDuplicateCategoryName = errors.New("duplicate category name")
	ErrDuplicateActiveLoan   = errors.New("duplicate active loan for user and book")
	ErrForeignKeyViolation   = errors.New("referenced record is missing or still referenced")
)
