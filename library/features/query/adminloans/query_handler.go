package adminloans

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	LoansPage(ctx context.Context, page librarystore.Page) ([]librarystore.LoanView, int, error)
}

// QueryHandler pages through loans.
type QueryHandler struct {
	store  Store
	policy core.LoanPolicy
}

// NewQueryHandler creates a new QueryHandler that derives fines with policy.
func NewQueryHandler(store Store, policy core.LoanPolicy) QueryHandler {
	return QueryHandler{store: store, policy: policy}
}

// Handle returns the requested page together with the pagination info.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	loans, total, err := h.store.LoansPage(librarystore.WithEventualConsistency(ctx), query.Page)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Loans: shell.WithStandings(loans, h.policy, query.Now),
		Pagination: Pagination{
			CurrentPage: query.Page.Number(),
			TotalPages:  query.Page.TotalPages(total),
			TotalLoans:  total,
			HasNext:     query.Page.HasNext(total),
			HasPrev:     query.Page.HasPrev(),
		},
	}, nil
}
