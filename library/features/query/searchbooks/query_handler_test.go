package searchbooks_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/query/searchbooks"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore" //nolint:revive
)

func titlesOf(result searchbooks.Result) []string {
	titles := make([]string, 0, len(result.Books))
	for _, book := range result.Books {
		titles = append(titles, book.Title)
	}

	return titles
}

func Test_QueryHandler_Handle_MatchesTitleOrSummary_CaseInsensitive(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := searchbooks.NewQueryHandler(store)

	// arrange
	GivenBook(t, ctx, store, 1, WithTitle("Dune"))
	GivenBook(t, ctx, store, 1, WithTitle("Arrakis Notes"), WithSummary("A companion to DUNE"))
	GivenBook(t, ctx, store, 1, WithTitle("Foundation"))

	// act
	result, err := handler.Handle(ctx, searchbooks.BuildQuery("dune", uuid.Nil, uuid.Nil, 1, 20))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Arrakis Notes", "Dune"}, titlesOf(result))
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.TotalPages)
}

func Test_QueryHandler_Handle_TreatsWildcardsLiterally(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := searchbooks.NewQueryHandler(store)

	// arrange
	GivenBook(t, ctx, store, 1, WithTitle("100% Arabic"))
	GivenBook(t, ctx, store, 1, WithTitle("Arabic Grammar"))

	// act
	percent, err := handler.Handle(ctx, searchbooks.BuildQuery("%", uuid.Nil, uuid.Nil, 1, 20))
	require.NoError(t, err)
	underscore, err := handler.Handle(ctx, searchbooks.BuildQuery("_", uuid.Nil, uuid.Nil, 1, 20))
	require.NoError(t, err)

	// assert
	assert.Equal(t, []string{"100% Arabic"}, titlesOf(percent))
	assert.Empty(t, underscore.Books)
}

func Test_QueryHandler_Handle_FiltersByAuthorAndCategory(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := searchbooks.NewQueryHandler(store)

	// arrange
	munif := GivenAuthor(t, ctx, store, "Abdul Rahman Munif")
	novels := GivenCategory(t, ctx, store, "Novels")
	GivenBook(t, ctx, store, 1, WithTitle("Cities of Salt"), WithAuthor(munif), WithCategory(novels))
	GivenBook(t, ctx, store, 1, WithTitle("The Trench"), WithAuthor(munif))
	GivenBook(t, ctx, store, 1, WithTitle("Palace Walk"), WithCategory(novels))

	// act
	result, err := handler.Handle(ctx, searchbooks.BuildQuery("", munif.ID, novels.ID, 1, 20))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Cities of Salt"}, titlesOf(result))
	assert.Equal(t, "Abdul Rahman Munif", result.Books[0].AuthorName)
	assert.Equal(t, "Novels", result.Books[0].CategoryName)
}

func Test_QueryHandler_Handle_PaginatesSortedByTitle(t *testing.T) {
	// setup
	ctx := context.Background()
	store := New(t)
	handler := searchbooks.NewQueryHandler(store)

	// arrange
	for _, title := range []string{"E", "C", "A", "D", "B"} {
		GivenBook(t, ctx, store, 1, WithTitle(title))
	}

	// act
	second, err := handler.Handle(ctx, searchbooks.BuildQuery("", uuid.Nil, uuid.Nil, 2, 2))
	require.NoError(t, err)
	beyond, err := handler.Handle(ctx, searchbooks.BuildQuery("", uuid.Nil, uuid.Nil, 4, 2))
	require.NoError(t, err)

	// assert
	assert.Equal(t, []string{"C", "D"}, titlesOf(second))
	assert.Equal(t, 5, second.Total)
	assert.Equal(t, 2, second.CurrentPage)
	assert.Equal(t, 3, second.TotalPages)
	assert.Empty(t, beyond.Books)
	assert.Equal(t, 5, beyond.Total)
}

func Test_BuildQuery_SanitizesPaging(t *testing.T) {
	query := searchbooks.BuildQuery("", uuid.Nil, uuid.Nil, 0, 1000)

	assert.Equal(t, 1, query.Page.Number())
	assert.Equal(t, librarystore.MaxPageSize, query.Page.Size())
}
