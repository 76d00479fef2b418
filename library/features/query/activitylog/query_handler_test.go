package activitylog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/query/activitylog"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore" //nolint:revive
)

func Test_QueryHandler_Handle_DecodesNewestFirst(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := activitylog.NewQueryHandler(store)

	// arrange
	bookID := uuid.New()
	require.NoError(t, shell.AppendActivity(ctx, store,
		core.BuildBookAddedToCatalog(bookID, "Dune", uuid.New(), uuid.New(), "", 1, FixedClock),
		core.BuildBookUpdated(bookID, "Dune Messiah", 1, 1, core.BookStatusAvailable, FixedClock.Add(time.Minute)),
	))

	// act
	entries, err := handler.Handle(ctx, activitylog.BuildQuery(0))

	// assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, core.BookUpdatedEventType, entries[0].EventType)

	updated, ok := entries[0].Event.(core.BookUpdated)
	require.True(t, ok, "expected BookUpdated event")
	assert.Equal(t, "Dune Messiah", updated.Title)
}

func Test_QueryHandler_Handle_RejectsLimitOutOfRange(t *testing.T) {
	handler := activitylog.NewQueryHandler(New(t))

	for _, limit := range []int{-1, activitylog.MaxLimit + 1} {
		_, err := handler.Handle(context.Background(), activitylog.BuildQuery(limit))

		assert.Equal(t, core.KindValidation, core.KindOf(err))
	}
}
