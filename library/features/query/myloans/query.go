// Package myloans lists the loans of the caller, newest first, with their overdue standing.
package myloans

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

const (
	queryType = "MyLoans"
)

// Query represents the listing of one user's loans at Now.
type Query struct {
	UserID uuid.UUID
	Now    core.OccurredAtTS
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(userID uuid.UUID, now time.Time) Query {
	return Query{UserID: userID, Now: core.ToOccurredAt(now)}
}

// Result holds all loans of the user.
type Result struct {
	Loans []shell.LoanWithStanding
	Total int
}
