package addauthor_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/addauthor"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/observability/testdoubles" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore"                //nolint:revive
)

func intPtr(i int) *int { return &i }

func Test_CommandHandler_Handle_AddsAuthor(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	publisher := NewEventPublisherSpy()
	handler := addauthor.NewCommandHandler(store, addauthor.WithPublisher(publisher))

	// act
	author, err := handler.Handle(ctx, addauthor.BuildCommand(
		uuid.New(), " Naguib Mahfouz ", "Nobel laureate", "Egyptian", intPtr(1911), intPtr(2006), FixedClock,
	))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Naguib Mahfouz", author.Name)

	authors, err := store.ListAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Egyptian", authors[0].Nationality)
	require.NotNil(t, authors[0].BirthYear)
	assert.Equal(t, 1911, *authors[0].BirthYear)
	assert.Equal(t, []string{core.AuthorAddedEventType}, publisher.EventTypes())
}

func Test_CommandHandler_Handle_Fails_ForTakenName(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := addauthor.NewCommandHandler(store)

	// arrange
	GivenAuthor(t, ctx, store, "Naguib Mahfouz")

	// act
	_, err := handler.Handle(ctx, addauthor.BuildCommand(uuid.New(), "Naguib Mahfouz", "", "", nil, nil, FixedClock))

	// assert
	assert.ErrorIs(t, err, core.ErrAuthorNameTaken)

	records, err := store.RecentActivity(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func Test_Decide_Rejections(t *testing.T) {
	testCases := []struct {
		description string
		command     addauthor.Command
		field       string
	}{
		{"blank name", addauthor.BuildCommand(uuid.New(), " ", "", "", nil, nil, FixedClock), "name"},
		{"negative birth year", addauthor.BuildCommand(uuid.New(), "x", "", "", intPtr(-1), nil, FixedClock), "birthYear"},
		{"death before birth", addauthor.BuildCommand(uuid.New(), "x", "", "", intPtr(1950), intPtr(1900), FixedClock), "deathYear"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			result := addauthor.Decide(tc.command)

			assert.False(t, result.HasEventToRecord())
			assert.Equal(t, tc.field, core.AsError(result.HasError()).Field)
		})
	}
}
