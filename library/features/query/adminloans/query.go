// Package adminloans pages through all loans, newest first.
package adminloans

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const (
	queryType = "AdminLoans"

	// DefaultLimit is the page size when none is requested.
	DefaultLimit = 10
)

// Query selects one page of loans.
type Query struct {
	Page librarystore.Page
	Now  core.OccurredAtTS
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query. A limit below 1 means DefaultLimit.
func BuildQuery(page, limit int, now time.Time) Query {
	if limit < 1 {
		limit = DefaultLimit
	}

	return Query{Page: librarystore.BuildPage(page, limit), Now: core.ToOccurredAt(now)}
}

// Pagination describes where the page lies in the whole listing.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalLoans  int
	HasNext     bool
	HasPrev     bool
}

// Result is one page of loans.
type Result struct {
	Loans      []shell.LoanWithStanding
	Pagination Pagination
}
