package returnloan_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/returnloan"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/observability/testdoubles" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore"                //nolint:revive
)

func actorOf(user librarystore.User) shell.Actor {
	return shell.Actor{UserID: user.ID, Role: user.Role, Name: user.Name}
}

func Test_CommandHandler_Handle_ReturnsLoanAndCopy(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	publisher := NewEventPublisherSpy()
	handler := returnloan.NewCommandHandler(store, returnloan.WithPublisher(publisher))

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	book := GivenBook(t, ctx, store, 1)
	loan := GivenActiveLoan(t, ctx, store, user, book, FixedClock)
	returnedAt := FixedClock.Add(3 * 24 * time.Hour)

	// act
	returned, err := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, actorOf(user), returnedAt))

	// assert
	require.NoError(t, err)
	assert.Equal(t, librarystore.LoanStatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.True(t, returnedAt.Equal(*returned.ReturnDate))

	stored, err := store.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableCopies)
	assert.Equal(t, librarystore.BookStatusAvailable, stored.Status)

	storedLoan, err := store.LoanByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, librarystore.LoanStatusReturned, storedLoan.Status)

	assert.Equal(t, []string{core.BookReturnedEventType}, publisher.EventTypes())
}

func Test_CommandHandler_Handle_AdminMayReturnForUser(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := returnloan.NewCommandHandler(store)

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	admin := GivenUser(t, ctx, store, librarystore.RoleAdmin)
	loan := GivenActiveLoan(t, ctx, store, user, GivenBook(t, ctx, store, 1), FixedClock)

	// act
	_, err := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, actorOf(admin), FixedClock))

	// assert
	assert.NoError(t, err)
}

func Test_CommandHandler_Handle_Fails_ForOtherUser(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := returnloan.NewCommandHandler(store)

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	stranger := GivenUser(t, ctx, store, librarystore.RoleUser)
	book := GivenBook(t, ctx, store, 1)
	loan := GivenActiveLoan(t, ctx, store, user, book, FixedClock)

	// act
	_, err := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, actorOf(stranger), FixedClock))

	// assert
	assert.ErrorIs(t, err, core.ErrNotLoanOwner)

	storedLoan, err := store.LoanByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, librarystore.LoanStatusActive, storedLoan.Status)

	records, err := store.RecentActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.ReturningBookFailedEventType, records[0].EventType)
}

func Test_CommandHandler_Handle_SecondReturn_Fails(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := returnloan.NewCommandHandler(store)

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	loan := GivenActiveLoan(t, ctx, store, user, GivenBook(t, ctx, store, 1), FixedClock)

	_, err := handler.Handle(ctx, returnloan.BuildCommand(loan.ID, actorOf(user), FixedClock))
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, returnloan.BuildCommand(loan.ID, actorOf(user), FixedClock))

	// assert
	assert.ErrorIs(t, err, core.ErrLoanAlreadyReturned)
}

func Test_CommandHandler_Handle_ConcurrentDoubleReturn_PutsCopyBackOnce(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := returnloan.NewCommandHandler(store)

	// arrange
	book := GivenBook(t, ctx, store, 3)
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	otherUser := GivenUser(t, ctx, store, librarystore.RoleUser)
	loan := GivenActiveLoan(t, ctx, store, user, book, FixedClock)
	GivenActiveLoan(t, ctx, store, otherUser, book, FixedClock)

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup

	// act
	for i := range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(ctx, returnloan.BuildCommand(loan.ID, actorOf(user), FixedClock))
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

		assert.ErrorIs(t, err, core.ErrLoanAlreadyReturned)
	}

	assert.Equal(t, 1, succeeded)

	stored, err := store.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AvailableCopies)
}
