// Package bookdetails implements the Book Details query: one book with its author and category.
package bookdetails

import (
	"github.com/google/uuid"
)

const (
	queryType = "BookDetails"
)

// Query represents the lookup of one book.
type Query struct {
	BookID uuid.UUID
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(bookID uuid.UUID) Query {
	return Query{BookID: bookID}
}
