package sqlengine_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/observability/testdoubles" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore"                //nolint:revive
)

func Test_NewStoreFromSQLDB_WhenDBIsNil_ReturnsError(t *testing.T) {
	// act
	_, err := sqlengine.NewStoreFromSQLDB(nil)

	// assert
	assert.ErrorIs(t, err, librarystore.ErrNilDatabaseConnection)
}

func Test_NewStoreFromSQLDB_DetectsSQLiteDialect(t *testing.T) {
	// setup
	db, err := sql.Open("sqlite3", DSN(t))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// act
	store, err := sqlengine.NewStoreFromSQLDB(db)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, sqlengine.DialectSQLite, store.Dialect())
}

func Test_WithDialect_WhenUnknown_ReturnsError(t *testing.T) {
	// setup
	db, err := sql.Open("sqlite3", DSN(t))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// act
	_, err = sqlengine.NewStoreFromSQLDB(db, sqlengine.WithDialect("mysql"))

	// assert
	assert.ErrorIs(t, err, librarystore.ErrUnsupportedDialect)
}

func Test_SearchBooks_MatchesTitleOrSummary_CaseInsensitive(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	byTitle := GivenBook(t, ctx, store, 1, WithTitle("The Dune Chronicles"))
	bySummary := GivenBook(t, ctx, store, 1, WithTitle("Arrakis"), WithSummary("A story about DUNES and spice"))
	GivenBook(t, ctx, store, 1, WithTitle("Foundation"), WithSummary("Psychohistory"))

	filter := librarystore.BuildBookFilter().WithSearchTerm("  dune ").Finalize()

	// act
	books, total, err := store.SearchBooks(ctx, filter)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, books, 2)
	assert.Equal(t, bySummary.ID, books[0].ID, "books must be sorted by title")
	assert.Equal(t, byTitle.ID, books[1].ID)
	assert.Equal(t, "Vlad Khononov", books[0].AuthorName)
	assert.Equal(t, "Software Design", books[0].CategoryName)
}

func Test_SearchBooks_TreatsWildcardCharactersLiterally(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	literal := GivenBook(t, ctx, store, 1, WithTitle("100% Go"))
	GivenBook(t, ctx, store, 1, WithTitle("1000 Go Tips"))

	filter := librarystore.BuildBookFilter().WithSearchTerm("0%").Finalize()

	// act
	books, total, err := store.SearchBooks(ctx, filter)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, books, 1)
	assert.Equal(t, literal.ID, books[0].ID)
}

func Test_SearchBooks_AndsFiltersAndPaginates(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	author := GivenAuthor(t, ctx, store, "Ursula K. Le Guin")
	category := GivenCategory(t, ctx, store, "Fantasy")
	other := GivenCategory(t, ctx, store, "Essays")

	GivenBook(t, ctx, store, 1, WithTitle("A"), WithAuthor(author), WithCategory(category))
	second := GivenBook(t, ctx, store, 1, WithTitle("B"), WithAuthor(author), WithCategory(category))
	GivenBook(t, ctx, store, 1, WithTitle("C"), WithAuthor(author), WithCategory(category))
	GivenBook(t, ctx, store, 1, WithTitle("D"), WithAuthor(author), WithCategory(other))
	GivenBook(t, ctx, store, 1, WithTitle("E"), WithCategory(category))

	filter := librarystore.BuildBookFilter().
		WithAuthorID(author.ID).
		WithCategoryID(category.ID).
		OnPage(librarystore.BuildPage(2, 1)).
		Finalize()

	// act
	books, total, err := store.SearchBooks(ctx, filter)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, books, 1)
	assert.Equal(t, second.ID, books[0].ID)
}

func Test_BookByID_WhenAbsent_ReturnsErrRecordNotFound(t *testing.T) {
	// setup
	store := New(t)

	// act
	_, err := store.BookByID(t.Context(), uuid.New())

	// assert
	assert.ErrorIs(t, err, librarystore.ErrRecordNotFound)
}

func Test_InsertBook_WhenISBNIsDuplicate_ReturnsErrDuplicateISBN(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	GivenBook(t, ctx, store, 1, WithISBN("978-1-098-10013-1"))
	GivenBook(t, ctx, store, 1) // books without isbn never collide
	GivenBook(t, ctx, store, 1)

	// act
	err := store.InsertBook(ctx, librarystore.Book{
		ID:          uuid.New(),
		Title:       "Duplicate",
		AuthorID:    GivenAuthor(t, ctx, store, "Anyone").ID,
		CategoryID:  GivenCategory(t, ctx, store, "Anything").ID,
		ISBN:        "978-1-098-10013-1",
		TotalCopies: 1, AvailableCopies: 1,
		Status:    librarystore.BookStatusAvailable,
		CreatedAt: FixedClock, UpdatedAt: FixedClock,
	})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrDuplicateISBN)
}

func Test_FindOrCreateAuthor_WhenCalledConcurrently_CreatesOneAuthor(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// act
	const workers = 8
	ids := make([]uuid.UUID, workers)
	wg := sync.WaitGroup{}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			author, err := store.FindOrCreateAuthor(ctx, "Octavia E. Butler", FixedClock)
			assert.NoError(t, err)
			ids[i] = author.ID
		}(i)
	}

	wg.Wait()

	// assert
	authors, err := store.ListAuthors(ctx)
	assert.NoError(t, err)
	assert.Len(t, authors, 1)

	for _, id := range ids {
		assert.Equal(t, authors[0].ID, id)
	}
}

func Test_TakeCopy_WhenLastCopyIsBorrowedConcurrently_OnlyOneSucceeds(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 1)

	const workers = 10
	users := make([]librarystore.User, workers)
	for i := range users {
		users[i] = GivenUser(t, ctx, store, librarystore.RoleUser)
	}

	// act
	var successes atomic.Int32
	wg := sync.WaitGroup{}

	for _, user := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := store.WithTransaction(ctx, func(tx librarystore.Tx) error {
				taken, err := tx.TakeCopy(ctx, book.ID, FixedClock)
				if err != nil || !taken {
					return err
				}

				successes.Add(1)

				return tx.InsertLoan(ctx, librarystore.Loan{
					ID: uuid.New(), UserID: user.ID, BookID: book.ID,
					BorrowDate: FixedClock, DueDate: FixedClock.Add(14 * 24 * time.Hour),
					Status: librarystore.LoanStatusActive,
				})
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	// assert
	assert.Equal(t, int32(1), successes.Load())

	stored, err := store.BookByID(ctx, book.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableCopies)
	assert.Equal(t, librarystore.BookStatusBorrowed, stored.Status)
}

func Test_TakeCopy_WhenBookIsUnderMaintenance_TakesNothing(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 2)
	updated := book
	updated.Status = librarystore.BookStatusMaintenance
	require.NoError(t, store.UpdateBook(ctx, book, updated))

	// act
	taken, err := store.TakeCopy(ctx, book.ID, FixedClock)

	// assert
	assert.NoError(t, err)
	assert.False(t, taken)
}

func Test_InsertLoan_WhenUserAlreadyHoldsTheBook_ReturnsErrDuplicateActiveLoan(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 3)
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	GivenActiveLoan(t, ctx, store, user, book, FixedClock)

	// act
	err := store.InsertLoan(ctx, librarystore.Loan{
		ID: uuid.New(), UserID: user.ID, BookID: book.ID,
		BorrowDate: FixedClock, DueDate: FixedClock.Add(14 * 24 * time.Hour),
		Status: librarystore.LoanStatusActive,
	})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrDuplicateActiveLoan)
}

func Test_CloseLoan_WhenReturnedConcurrently_ClosesAndIncrementsOnce(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 2)
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	loan := GivenActiveLoan(t, ctx, store, user, book, FixedClock)

	// act
	const workers = 6
	var closed atomic.Int32
	wg := sync.WaitGroup{}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := store.WithTransaction(ctx, func(tx librarystore.Tx) error {
				ok, err := tx.CloseLoan(ctx, loan.ID, FixedClock.Add(time.Hour))
				if err != nil || !ok {
					return err
				}

				closed.Add(1)
				_, err = tx.ReturnCopy(ctx, book.ID, FixedClock.Add(time.Hour))

				return err
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	// assert
	assert.Equal(t, int32(1), closed.Load())

	stored, err := store.BookByID(ctx, book.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, stored.AvailableCopies)

	storedLoan, err := store.LoanByID(ctx, loan.ID)
	assert.NoError(t, err)
	assert.Equal(t, librarystore.LoanStatusReturned, storedLoan.Status)
	require.NotNil(t, storedLoan.ReturnDate)
	assert.WithinDuration(t, FixedClock.Add(time.Hour), *storedLoan.ReturnDate, 0)
}

func Test_ReturnCopy_WhenAllCopiesAreIn_IsCapped(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 1)

	// act
	returned, err := store.ReturnCopy(ctx, book.ID, FixedClock)

	// assert
	assert.NoError(t, err)
	assert.False(t, returned)
}

func Test_UpdateBook_WhenCountersChangedSinceRead_ReturnsErrConcurrencyConflict(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 2)
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	GivenActiveLoan(t, ctx, store, user, book, FixedClock) // changes availableCopies after the read

	updated := book
	updated.Title = "Changed"

	// act
	err := store.UpdateBook(ctx, book, updated)

	// assert
	assert.ErrorIs(t, err, librarystore.ErrConcurrencyConflict)
}

func Test_DeleteBook_WhenLoansReferenceIt_ReturnsErrForeignKeyViolation(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 1)
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	GivenActiveLoan(t, ctx, store, user, book, FixedClock)

	// act
	err := store.DeleteBook(ctx, book.ID)

	// assert
	assert.ErrorIs(t, err, librarystore.ErrForeignKeyViolation)
}

func Test_DeleteBook_WhenAbsent_ReturnsErrRecordNotFound(t *testing.T) {
	// setup
	store := New(t)

	// act
	err := store.DeleteBook(t.Context(), uuid.New())

	// assert
	assert.ErrorIs(t, err, librarystore.ErrRecordNotFound)
}

func Test_WithTransaction_WhenFnFails_RollsBack(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 1)
	errBoom := errors.New("boom")

	// act
	err := store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		if _, takeErr := tx.TakeCopy(ctx, book.ID, FixedClock); takeErr != nil {
			return takeErr
		}

		return errBoom
	})

	// assert
	assert.ErrorIs(t, err, errBoom)

	stored, readErr := store.BookByID(ctx, book.ID)
	assert.NoError(t, readErr)
	assert.Equal(t, 1, stored.AvailableCopies)
}

func Test_InsertUser_WhenEmailOrUniversityIDIsTaken_ReturnsMatchingError(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	existing := GivenUser(t, ctx, store, librarystore.RoleUser)

	sameEmail := existing
	sameEmail.ID = uuid.New()
	sameEmail.UniversityID = "U-other"

	sameUniversityID := existing
	sameUniversityID.ID = uuid.New()
	sameUniversityID.Email = "other@example.org"

	// act
	emailErr := store.InsertUser(ctx, sameEmail)
	universityErr := store.InsertUser(ctx, sameUniversityID)

	// assert
	assert.ErrorIs(t, emailErr, librarystore.ErrDuplicateEmail)
	assert.ErrorIs(t, universityErr, librarystore.ErrDuplicateUniversityID)
}

func Test_Counts_And_OverdueLoans_UseTheGivenNow(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 3)
	GivenBook(t, ctx, store, 1)
	alice := GivenUser(t, ctx, store, librarystore.RoleUser)
	bob := GivenUser(t, ctx, store, librarystore.RoleUser)
	overdue := GivenActiveLoan(t, ctx, store, alice, book, FixedClock.Add(-20*24*time.Hour))
	GivenActiveLoan(t, ctx, store, bob, book, FixedClock)

	// act
	counts, countErr := store.Counts(ctx, FixedClock)
	overdueLoans, overdueErr := store.OverdueLoans(ctx, FixedClock)

	// assert
	assert.NoError(t, countErr)
	assert.Equal(t, librarystore.LibraryCounts{Books: 2, Users: 2, ActiveLoans: 2, OverdueLoans: 1}, counts)

	assert.NoError(t, overdueErr)
	require.Len(t, overdueLoans, 1)
	assert.Equal(t, overdue.ID, overdueLoans[0].ID)
	assert.Equal(t, alice.Email, overdueLoans[0].UserEmail)
	assert.Equal(t, book.Title, overdueLoans[0].BookTitle)
}

func Test_LoansPage_ReturnsNewestFirst(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 3)
	older := GivenActiveLoan(t, ctx, store, GivenUser(t, ctx, store, librarystore.RoleUser), book, FixedClock)
	newer := GivenActiveLoan(t, ctx, store, GivenUser(t, ctx, store, librarystore.RoleUser), book, FixedClock.Add(time.Hour))

	// act
	firstPage, total, err := store.LoansPage(ctx, librarystore.BuildPage(1, 1))
	secondPage, _, secondErr := store.LoansPage(ctx, librarystore.BuildPage(2, 1))

	// assert
	assert.NoError(t, err)
	assert.NoError(t, secondErr)
	assert.Equal(t, 2, total)
	require.Len(t, firstPage, 1)
	require.Len(t, secondPage, 1)
	assert.Equal(t, newer.ID, firstPage[0].ID)
	assert.Equal(t, older.ID, secondPage[0].ID)
}

func Test_RecentActivity_ReturnsNewestFirst(t *testing.T) {
	// setup
	ctx := t.Context()
	store := New(t)

	// arrange
	err := store.AppendActivity(ctx,
		librarystore.ActivityRecord{ID: uuid.New(), EventType: "BookBorrowed", OccurredAt: FixedClock, Payload: []byte(`{"a":1}`)},
		librarystore.ActivityRecord{ID: uuid.New(), EventType: "BookReturned", OccurredAt: FixedClock.Add(time.Minute), Payload: []byte(`{"b":2}`)},
	)
	require.NoError(t, err)

	// act
	records, err := store.RecentActivity(ctx, 1)

	// assert
	assert.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "BookReturned", records[0].EventType)
	assert.JSONEq(t, `{"b":2}`, string(records[0].Payload))
}

func Test_Reads_WithEventualConsistency_UseTheSameConnectionWithoutReplica(t *testing.T) {
	// setup
	ctx := librarystore.WithEventualConsistency(context.Background())
	store := New(t)

	// arrange
	book := GivenBook(t, ctx, store, 1)

	// act
	view, err := store.BookViewByID(ctx, book.ID)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, book.Title, view.Title)
}

func Test_Store_TracesAndMeasuresCatalogQueriesAndLoanTransactions(t *testing.T) {
	// setup
	ctx := t.Context()
	tracing := NewTracingCollectorSpy(true)
	metrics := NewMetricsCollectorSpy(true)
	store := New(t, sqlengine.WithTracing(tracing), sqlengine.WithMetrics(metrics))

	// arrange
	book := GivenBook(t, ctx, store, 1)
	tracing.Reset()
	metrics.Reset()

	// act
	_, _, searchErr := store.SearchBooks(ctx, librarystore.BuildBookFilter().WithSearchTerm("design").Finalize())
	txErr := store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		_, err := tx.TakeCopy(ctx, book.ID, time.Now())
		return err
	})

	// assert
	require.NoError(t, searchErr)
	require.NoError(t, txErr)

	assert.True(t, tracing.HasSpanRecordForName("librarystore.query").
		WithStatus("success").
		WithStartAttribute("operation", "search_books").
		WithStartAttribute("db.system", "sqlite3").
		Assert())
	assert.True(t, tracing.HasSpanRecordForName("librarystore.transaction").WithStatus("success").Assert())
	assert.True(t, metrics.HasDurationRecordForMetric("librarystore_query_duration_seconds").Assert())
	assert.True(t, metrics.HasDurationRecordForMetric("librarystore_transaction_duration_seconds").Assert())
}
