package sqlengine

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
)

// uniqueConstraints maps the unique index names of the schema to storage sentinels.
// SQLite reports "table.column" instead of the index name, so both are listed.
var uniqueConstraints = map[string]error{
	"users_email_unique":             librarystore.ErrDuplicateEmail,
	"users.email":                    librarystore.ErrDuplicateEmail,
	"users_university_id_unique":     librarystore.ErrDuplicateUniversityID,
	"users.university_id":            librarystore.ErrDuplicateUniversityID,
	"books_isbn_unique":              librarystore.ErrDuplicateISBN,
	"books.isbn":                     librarystore.ErrDuplicateISBN,
	"authors_name_unique":            librarystore.ErrDuplicateAuthorName,
	"authors.name":                   librarystore.ErrDuplicateAuthorName,
	"categories_name_unique":         librarystore.ErrDuplicateCategoryName,
	"categories.name":                librarystore.ErrDuplicateCategoryName,
	"loans_one_active_per_user_book": librarystore.ErrDuplicateActiveLoan,
	"loans.user_id, loans.book_id":   librarystore.ErrDuplicateActiveLoan,
}

// classifyConstraintError recognises unique and foreign key violations of all supported drivers.
// It returns nil if err is not a known constraint violation.
func classifyConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyByCode(pgErr.Code, pgErr.ConstraintName)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyByCode(string(pqErr.Code), pqErr.Constraint)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return classifyUniqueMessage(sqliteErr.Error())
		case sqlite3.ErrConstraintForeignKey:
			return librarystore.ErrForeignKeyViolation
		}
	}

	return nil
}

func classifyByCode(code, constraint string) error {
	switch code {
	case pgCodeUniqueViolation:
		if sentinel, ok := uniqueConstraints[constraint]; ok {
			return sentinel
		}

		return nil
	case pgCodeForeignKeyViolation:
		return librarystore.ErrForeignKeyViolation
	default:
		return nil
	}
}

// classifyUniqueMessage parses messages like "UNIQUE constraint failed: users.email".
func classifyUniqueMessage(message string) error {
	_, columns, found := strings.Cut(message, "constraint failed: ")
	if !found {
		return nil
	}

	if sentinel, ok := uniqueConstraints[strings.TrimSpace(columns)]; ok {
		return sentinel
	}

	return nil
}
