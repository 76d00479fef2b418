package adminloans_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/query/adminloans"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore" //nolint:revive
)

func Test_QueryHandler_Handle_Paginates(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := adminloans.NewQueryHandler(store, core.DefaultLoanPolicy())

	// arrange
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	for i := range 5 {
		GivenActiveLoan(t, ctx, store, user, GivenBook(t, ctx, store, 1), FixedClock.Add(time.Duration(i)*time.Hour))
	}

	// act
	first, err := handler.Handle(ctx, adminloans.BuildQuery(1, 2, FixedClock))
	require.NoError(t, err)
	last, err := handler.Handle(ctx, adminloans.BuildQuery(3, 2, FixedClock))
	require.NoError(t, err)

	// assert
	assert.Len(t, first.Loans, 2)
	assert.Equal(t, adminloans.Pagination{CurrentPage: 1, TotalPages: 3, TotalLoans: 5, HasNext: true, HasPrev: false}, first.Pagination)
	assert.True(t, first.Loans[0].BorrowDate.After(first.Loans[1].BorrowDate))

	assert.Len(t, last.Loans, 1)
	assert.Equal(t, adminloans.Pagination{CurrentPage: 3, TotalPages: 3, TotalLoans: 5, HasNext: false, HasPrev: true}, last.Pagination)
}

func Test_BuildQuery_DefaultLimit(t *testing.T) {
	query := adminloans.BuildQuery(0, 0, FixedClock)

	assert.Equal(t, 1, query.Page.Number())
	assert.Equal(t, adminloans.DefaultLimit, query.Page.Size())
}
