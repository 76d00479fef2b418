// Package overdueloans lists the active loans past their due date, oldest due date first.
package overdueloans

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

const (
	queryType = "OverdueLoans"
)

type Query struct {
	Now core.OccurredAtTS
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

func BuildQuery(now time.Time) Query {
	return Query{Now: core.ToOccurredAt(now)}
}

type Result struct {
	Loans []shell.LoanWithStanding
	Total int
}
