// Package librarystats implements the admin dashboard counters. They are computed on every request.
package librarystats

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	queryType = "LibraryStats"
)

// Query asks for the counters at a point in time; overdue is judged against Now.
type Query struct {
	Now core.OccurredAtTS
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(now time.Time) Query {
	return Query{Now: core.ToOccurredAt(now)}
}
