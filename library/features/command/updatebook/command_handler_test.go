package updatebook_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/updatebook"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/observability/testdoubles" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore"                //nolint:revive
)

func Test_CommandHandler_Handle_UpdatesBook_WithBorrowedCopies(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	publisher := NewEventPublisherSpy()
	handler := updatebook.NewCommandHandler(store, updatebook.WithPublisher(publisher))

	// arrange
	book := GivenBook(t, ctx, store, 3)
	GivenActiveLoan(t, ctx, store, GivenUser(t, ctx, store, librarystore.RoleUser), book, FixedClock)
	GivenActiveLoan(t, ctx, store, GivenUser(t, ctx, store, librarystore.RoleUser), book, FixedClock)

	command := updatebook.BuildCommand(book.ID, "Learning DDD", "Architecture", FixedClock)
	command.TotalCopies = intPtr(5)

	// act
	updated, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, updated.AvailableCopies)

	view, err := store.BookViewByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Learning DDD", view.Title)
	assert.Equal(t, "Architecture", view.CategoryName)
	assert.Equal(t, 5, view.TotalCopies)
	assert.Equal(t, 3, view.AvailableCopies)
	assert.Equal(t, librarystore.BookStatusAvailable, view.Status)
	assert.Equal(t, []string{core.BookUpdatedEventType}, publisher.EventTypes())

	records, err := store.RecentActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.BookUpdatedEventType, records[0].EventType)
}

func Test_CommandHandler_Handle_Fails_ForUnknownBook(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	publisher := NewEventPublisherSpy()
	handler := updatebook.NewCommandHandler(store, updatebook.WithPublisher(publisher))

	// act
	_, err := handler.Handle(ctx, updatebook.BuildCommand(uuid.New(), "Cities of Salt", "Novels", FixedClock))

	// assert
	assert.ErrorIs(t, err, core.ErrBookNotFound)
	assert.Empty(t, publisher.EventTypes())

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func Test_CommandHandler_Handle_Fails_ForTakenISBN(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := updatebook.NewCommandHandler(store)

	// arrange
	GivenBook(t, ctx, store, 1, WithISBN("978-0394755267"))
	book := GivenBook(t, ctx, store, 1, WithTitle("Another"))

	command := updatebook.BuildCommand(book.ID, "Another", "Novels", FixedClock)
	command.ISBN = strPtr("978-0394755267")

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, core.ErrISBNTaken)

	unchanged, err := store.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, unchanged.ISBN)
}

func Test_CommandHandler_Handle_Fails_ForBlankTitle(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := updatebook.NewCommandHandler(store)
	book := GivenBook(t, ctx, store, 1)

	// act
	_, err := handler.Handle(ctx, updatebook.BuildCommand(book.ID, "", "Novels", FixedClock))

	// assert
	assert.Equal(t, core.KindValidation, core.KindOf(err))
}
