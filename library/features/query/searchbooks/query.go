package searchbooks

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const (
	queryType = "SearchBooks"
)

// Query represents a catalog search. Zero values mean "no restriction".
type Query struct {
	SearchTerm string
	AuthorID   uuid.UUID
	CategoryID uuid.UUID
	Page       librarystore.Page
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query. page and limit are sanitized, see librarystore.BuildPage.
func BuildQuery(searchTerm string, authorID, categoryID uuid.UUID, page, limit int) Query {
	return Query{
		SearchTerm: searchTerm,
		AuthorID:   authorID,
		CategoryID: categoryID,
		Page:       librarystore.BuildPage(page, limit),
	}
}

// Filter translates the query into a storage filter.
func (q Query) Filter() librarystore.BookFilter {
	return librarystore.BuildBookFilter().
		WithSearchTerm(q.SearchTerm).
		WithAuthorID(q.AuthorID).
		WithCategoryID(q.CategoryID).
		OnPage(q.Page).
		Finalize()
}
