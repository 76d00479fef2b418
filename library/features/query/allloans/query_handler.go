package allloans

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	AllLoans(ctx context.Context) ([]librarystore.LoanView, error)
}

type QueryHandler struct {
	store  Store
	policy core.LoanPolicy
}

func NewQueryHandler(store Store, policy core.LoanPolicy) QueryHandler {
	return QueryHandler{store: store, policy: policy}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	loans, err := h.store.AllLoans(librarystore.WithEventualConsistency(ctx))
	if err != nil {
		return Result{}, err
	}

	return Result{Loans: shell.WithStandings(loans, h.policy, query.Now), Total: len(loans)}, nil
}
