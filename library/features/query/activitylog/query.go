// Package activitylog returns the most recent entries of the activity log, decoded into domain events.
package activitylog

import (
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	queryType = "ActivityLog"

	DefaultLimit = 50
	MaxLimit     = 200
)

type Query struct {
	Limit int
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query. A limit of 0 means DefaultLimit.
func BuildQuery(limit int) Query {
	if limit == 0 {
		limit = DefaultLimit
	}

	return Query{Limit: limit}
}

// Validate rejects limits outside 1..MaxLimit.
func (q Query) Validate() error {
	if q.Limit < 1 || q.Limit > MaxLimit {
		return core.ValidationError("limit", "limit must be between 1 and 200")
	}

	return nil
}
