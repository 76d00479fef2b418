// Package allloans lists every loan of every user, newest first, for admins.
package allloans

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

const (
	queryType = "AllLoans"
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
