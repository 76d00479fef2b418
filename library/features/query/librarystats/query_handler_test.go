package librarystats_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/query/librarystats"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore" //nolint:revive
)

func Test_QueryHandler_Handle_CountsOverdueAgainstNow(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := librarystats.NewQueryHandler(store)

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	GivenUser(t, ctx, store, librarystore.RoleAdmin)
	GivenActiveLoan(t, ctx, store, user, GivenBook(t, ctx, store, 1), FixedClock)
	GivenActiveLoan(t, ctx, store, user, GivenBook(t, ctx, store, 1), FixedClock.Add(7*24*time.Hour))
	GivenBook(t, ctx, store, 3)

	// act
	counts, err := handler.Handle(ctx, librarystats.BuildQuery(FixedClock.Add(15*24*time.Hour)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, librarystore.LibraryCounts{Books: 3, Users: 2, ActiveLoans: 2, OverdueLoans: 1}, counts)
}
