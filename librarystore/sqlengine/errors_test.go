package sqlengine

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

func Test_classifyConstraintError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "pgx unique violation on email",
			err:      &pgconn.PgError{Code: pgCodeUniqueViolation, ConstraintName: "users_email_unique"},
			expected: librarystore.ErrDuplicateEmail,
		},
		{
			name:     "pgx unique violation on active loan",
			err:      &pgconn.PgError{Code: pgCodeUniqueViolation, ConstraintName: "loans_one_active_per_user_book"},
			expected: librarystore.ErrDuplicateActiveLoan,
		},
		{
			name:     "pgx foreign key violation",
			err:      &pgconn.PgError{Code: pgCodeForeignKeyViolation, ConstraintName: "loans_book_id_fkey"},
			expected: librarystore.ErrForeignKeyViolation,
		},
		{
			name:     "lib/pq unique violation on isbn",
			err:      &pq.Error{Code: pgCodeUniqueViolation, Constraint: "books_isbn_unique"},
			expected: librarystore.ErrDuplicateISBN,
		},
		{
			name:     "lib/pq unique violation on university id",
			err:      &pq.Error{Code: pgCodeUniqueViolation, Constraint: "users_university_id_unique"},
			expected: librarystore.ErrDuplicateUniversityID,
		},
		{
			name:     "unknown unique constraint",
			err:      &pgconn.PgError{Code: pgCodeUniqueViolation, ConstraintName: "something_else"},
			expected: nil,
		},
		{
			name:     "other database error",
			err:      &pgconn.PgError{Code: "40001"},
			expected: nil,
		},
		{
			name:     "plain error",
			err:      errors.New("connection reset"),
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			actual := classifyConstraintError(errors.Join(errors.New("wrapped"), tc.err))

			// assert
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func Test_classifyUniqueMessage_ParsesSQLiteMessages(t *testing.T) {
	assert.Equal(t, librarystore.ErrDuplicateEmail, classifyUniqueMessage("UNIQUE constraint failed: users.email"))
	assert.Equal(t, librarystore.ErrDuplicateActiveLoan, classifyUniqueMessage("UNIQUE constraint failed: loans.user_id, loans.book_id"))
	assert.Equal(t, librarystore.ErrDuplicateCategoryName, classifyUniqueMessage("UNIQUE constraint failed: categories.name"))
	assert.Nil(t, classifyUniqueMessage("NOT NULL constraint failed: users.name"))
}
