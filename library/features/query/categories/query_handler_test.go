package categories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/query/categories"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore" //nolint:revive
)

func Test_QueryHandler_Handle_SortsByName(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)

	// arrange
	GivenCategory(t, ctx, store, "Poetry")
	GivenCategory(t, ctx, store, "History")

	// act
	result, err := categories.NewQueryHandler(store).Handle(ctx, categories.BuildQuery())

	// assert
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "History", result[0].Name)
}

func Test_QueryHandler_Handle_EmptyCatalog(t *testing.T) {
	result, err := categories.NewQueryHandler(New(t)).Handle(context.Background(), categories.BuildQuery())

	require.NoError(t, err)
	assert.Empty(t, result)
}
