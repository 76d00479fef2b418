package borrowbook_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/borrowbook"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/observability/testdoubles" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore"                //nolint:revive
)

func Test_CommandHandler_Handle_BorrowsLastCopy(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	publisher := NewEventPublisherSpy()
	handler := borrowbook.NewCommandHandler(store, borrowbook.WithPublisher(publisher))

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	book := GivenBook(t, ctx, store, 1)
	command := borrowbook.BuildCommand(uuid.New(), book.ID, user.ID, "for the seminar", FixedClock)

	// act
	loan, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, command.LoanID, loan.ID)
	assert.Equal(t, librarystore.LoanStatusActive, loan.Status)
	assert.Equal(t, core.DueDateFor(FixedClock), loan.DueDate)

	stored, err := store.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableCopies)
	assert.Equal(t, librarystore.BookStatusBorrowed, stored.Status)

	storedLoan, err := store.LoanByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "for the seminar", storedLoan.Notes)

	assertActivity(t, ctx, store, core.BookBorrowedEventType)
	assert.Equal(t, []string{core.BookBorrowedEventType}, publisher.EventTypes())
}

func Test_CommandHandler_Handle_RecordsRejection(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	publisher := NewEventPublisherSpy()
	handler := borrowbook.NewCommandHandler(store, borrowbook.WithPublisher(publisher))

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	book := GivenBook(t, ctx, store, 0)

	// act
	_, err := handler.Handle(ctx, borrowbook.BuildCommand(uuid.New(), book.ID, user.ID, "", FixedClock))

	// assert
	assert.ErrorIs(t, err, core.ErrNoCopiesAvailable)
	assertActivity(t, ctx, store, core.BorrowingBookFailedEventType)
	assert.Equal(t, []string{core.BorrowingBookFailedEventType}, publisher.EventTypes())

	loans, err := store.LoansByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func Test_CommandHandler_Handle_Fails_WhenAlreadyBorrowed(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := borrowbook.NewCommandHandler(store)

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	book := GivenBook(t, ctx, store, 2)
	GivenActiveLoan(t, ctx, store, user, book, FixedClock)

	// act
	_, err := handler.Handle(ctx, borrowbook.BuildCommand(uuid.New(), book.ID, user.ID, "", FixedClock))

	// assert
	assert.ErrorIs(t, err, core.ErrAlreadyBorrowed)

	stored, err := store.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableCopies)
}

func Test_CommandHandler_Handle_Fails_WhenBookDoesNotExist(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := borrowbook.NewCommandHandler(store)
	user := GivenUser(t, ctx, store, librarystore.RoleUser)

	// act
	_, err := handler.Handle(ctx, borrowbook.BuildCommand(uuid.New(), uuid.New(), user.ID, "", FixedClock))

	// assert
	assert.ErrorIs(t, err, core.ErrBookNotFound)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}

func Test_CommandHandler_Handle_ConcurrentBorrowsOfLastCopy_OnlyOneSucceeds(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := borrowbook.NewCommandHandler(store)

	// arrange
	const borrowers = 8
	book := GivenBook(t, ctx, store, 1)

	users := make([]librarystore.User, borrowers)
	for i := range users {
		users[i] = GivenUser(t, ctx, store, librarystore.RoleUser)
	}

	errs := make([]error, borrowers)
	var wg sync.WaitGroup

	// act
	for i, user := range users {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(ctx, borrowbook.BuildCommand(uuid.New(), book.ID, user.ID, "", FixedClock))
		}()
	}

	wg.Wait()

	// assert
	succeeded := 0

	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		assert.ErrorIs(t, err, core.ErrNoCopiesAvailable)
	}

	assert.Equal(t, 1, succeeded)

	stored, err := store.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableCopies)

	activeLoans, err := store.CountActiveLoansForBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, activeLoans)
}

func assertActivity(t *testing.T, ctx context.Context, store interface {
	RecentActivity(ctx context.Context, limit int) ([]librarystore.ActivityRecord, error)
}, expectedEventType string) {

	t.Helper()

	records, err := store.RecentActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, expectedEventType, records[0].EventType)
}

// racingBorrowStore simulates a concurrent borrow of the same user that commits its loan first.
type racingBorrowStore struct {
	sqlengine.Store
}

func (s racingBorrowStore) WithTransaction(ctx context.Context, fn librarystore.TxFunc) error {
	return s.Store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		return fn(duplicateLoanTx{Tx: tx})
	})
}

type duplicateLoanTx struct {
	librarystore.Tx
}

func (duplicateLoanTx) InsertLoan(context.Context, librarystore.Loan) error {
	return librarystore.ErrDuplicateActiveLoan
}

func Test_CommandHandler_Handle_Fails_WhenRacingBorrowInsertedTheLoanFirst(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	publisher := NewEventPublisherSpy()
	handler := borrowbook.NewCommandHandler(racingBorrowStore{Store: store}, borrowbook.WithPublisher(publisher))

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	book := GivenBook(t, ctx, store, 2)

	// act
	_, err := handler.Handle(ctx, borrowbook.BuildCommand(uuid.New(), book.ID, user.ID, "", FixedClock))

	// assert
	require.ErrorIs(t, err, core.ErrAlreadyBorrowed)
	assert.Equal(t, core.KindConflict, core.KindOf(err))

	stored, err := store.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AvailableCopies)

	loans, err := store.AllLoans(ctx)
	require.NoError(t, err)
	assert.Empty(t, loans)
	assert.Empty(t, publisher.EventTypes())
}
