package searchbooks

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	SearchBooks(ctx context.Context, filter librarystore.BookFilter) ([]librarystore.BookView, int, error)
}

// QueryHandler runs catalog searches. Slightly stale results are acceptable.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the requested page. A page beyond the last one is empty, not an error.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	books, total, err := h.store.SearchBooks(librarystore.WithEventualConsistency(ctx), query.Filter())
	if err != nil {
		return Result{}, err
	}

	return Result{
		Books:       books,
		Total:       total,
		CurrentPage: query.Page.Number(),
		TotalPages:  query.Page.TotalPages(total),
	}, nil
}
