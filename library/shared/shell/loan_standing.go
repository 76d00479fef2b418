package shell

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// LoanWithStanding is a loan listing entry with its overdue standing derived at read time.
type LoanWithStanding struct {
	librarystore.LoanView
	core.LoanStanding
}

// WithStandings derives the standing of every loan at now. The order is kept.
func WithStandings(loans []librarystore.LoanView, policy core.LoanPolicy, now time.Time) []LoanWithStanding {
	entries := make([]LoanWithStanding, 0, len(loans))

	for _, loan := range loans {
		entries = append(entries, LoanWithStanding{
			LoanView:     loan,
			LoanStanding: policy.StandingOf(loan.Status == librarystore.LoanStatusActive, loan.DueDate, now),
		})
	}

	return entries
}
