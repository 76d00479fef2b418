// Package sqlitestore provides a migrated, file-backed SQLite store and data fixtures for tests.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
)

// FixedClock is the default point in time fixtures are created at.
var FixedClock = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

// DSN returns a DSN for a fresh database file in the test's temp dir. Writers serialize on BEGIN.
func DSN(t testing.TB) string {
	path := filepath.Join(t.TempDir(), "library.db")

	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL", path)
}

// New returns a Store on a freshly migrated database. The connection is closed on test cleanup.
func New(t testing.TB, options ...sqlengine.Option) sqlengine.Store {
	t.Helper()

	dsn := DSN(t)
	require.NoError(t, sqlengine.MigrateUp(sqlengine.DialectSQLite, dsn), "migrating the test database failed")

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err, "opening the test database failed")
	t.Cleanup(func() { _ = db.Close() })

	store, err := sqlengine.NewStoreFromSQLDB(db, options...)
	require.NoError(t, err, "creating the store failed")

	return store
}

func GivenAuthor(t testing.TB, ctx context.Context, store sqlengine.Store, name string) librarystore.Author {
	t.Helper()

	author, err := store.FindOrCreateAuthor(ctx, name, FixedClock)
	require.NoError(t, err, "error in arranging test data")

	return author
}

func GivenCategory(t testing.TB, ctx context.Context, store sqlengine.Store, name string) librarystore.Category {
	t.Helper()

	category, err := store.FindOrCreateCategory(ctx, name, FixedClock)
	require.NoError(t, err, "error in arranging test data")

	return category
}

// BookOption adjusts a fixture book before it is inserted.
type BookOption func(book *librarystore.Book)

func WithTitle(title string) BookOption {
	return func(book *librarystore.Book) { book.Title = title }
}

func WithSummary(summary string) BookOption {
	return func(book *librarystore.Book) { book.Summary = summary }
}

func WithISBN(isbn string) BookOption {
	return func(book *librarystore.Book) { book.ISBN = isbn }
}

func WithAuthor(author librarystore.Author) BookOption {
	return func(book *librarystore.Book) { book.AuthorID = author.ID }
}

func WithCategory(category librarystore.Category) BookOption {
	return func(book *librarystore.Book) { book.CategoryID = category.ID }
}

// GivenBook inserts a book with the given number of copies, all of them available.
// Without WithAuthor and WithCategory it uses a default author and category.
func GivenBook(t testing.TB, ctx context.Context, store sqlengine.Store, copies int, options ...BookOption) librarystore.Book {
	t.Helper()

	book := librarystore.Book{
		ID:              uuid.New(),
		Title:           "Learning Domain-Driven Design " + uuid.NewString()[:8],
		PublishedYear:   2021,
		Language:        "English",
		Publisher:       "O'Reilly Media",
		TotalCopies:     copies,
		AvailableCopies: copies,
		Status:          librarystore.BookStatusAvailable,
		CreatedAt:       FixedClock,
		UpdatedAt:       FixedClock,
	}

	if copies == 0 {
		book.Status = librarystore.BookStatusBorrowed
	}

	for _, option := range options {
		option(&book)
	}

	if book.AuthorID == uuid.Nil {
		book.AuthorID = GivenAuthor(t, ctx, store, "Vlad Khononov").ID
	}

	if book.CategoryID == uuid.Nil {
		book.CategoryID = GivenCategory(t, ctx, store, "Software Design").ID
	}

	require.NoError(t, store.InsertBook(ctx, book), "error in arranging test data")

	return book
}

// GivenUser inserts a user with a unique email and university id.
func GivenUser(t testing.TB, ctx context.Context, store sqlengine.Store, role librarystore.Role) librarystore.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	user := librarystore.User{
		ID:           uuid.New(),
		Name:         "Reader " + suffix,
		Email:        "reader-" + suffix + "@example.org",
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhashnotarealhashnotar",
		UniversityID: "U-" + suffix,
		Role:         role,
		CreatedAt:    FixedClock,
	}

	require.NoError(t, store.InsertUser(ctx, user), "error in arranging test data")

	return user
}

// GivenActiveLoan lends one copy of the book to the user, borrowed at borrowedAt and due 14 days later.
func GivenActiveLoan(
	t testing.TB,
	ctx context.Context,
	store sqlengine.Store,
	user librarystore.User,
	book librarystore.Book,
	borrowedAt time.Time,
) librarystore.Loan {

	t.Helper()

	loan := librarystore.Loan{
		ID:         uuid.New(),
		UserID:     user.ID,
		BookID:     book.ID,
		BorrowDate: borrowedAt,
		DueDate:    borrowedAt.Add(14 * 24 * time.Hour),
		Status:     librarystore.LoanStatusActive,
	}

	err := store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		taken, err := tx.TakeCopy(ctx, book.ID, borrowedAt)
		if err != nil {
			return err
		}

		if !taken {
			return fmt.Errorf("no copy of %s available", book.ID)
		}

		return tx.InsertLoan(ctx, loan)
	})
	require.NoError(t, err, "error in arranging test data")

	return loan
}
