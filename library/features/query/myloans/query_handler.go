package myloans

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	LoansByUser(ctx context.Context, userID uuid.UUID) ([]librarystore.LoanView, error)
}

type QueryHandler struct {
	store  Store
	policy core.LoanPolicy
}

// NewQueryHandler creates a new QueryHandler that derives fines with policy.
func NewQueryHandler(store Store, policy core.LoanPolicy) QueryHandler {
	return QueryHandler{store: store, policy: policy}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	loans, err := h.store.LoansByUser(librarystore.WithEventualConsistency(ctx), query.UserID)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Loans: shell.WithStandings(loans, h.policy, query.Now),
		Total: len(loans),
	}, nil
}
