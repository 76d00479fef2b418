package librarystats

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	Counts(ctx context.Context, now time.Time) (librarystore.LibraryCounts, error)
}

// QueryHandler computes the counters.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the number of books, users, active loans and overdue loans.
func (h QueryHandler) Handle(ctx context.Context, query Query) (librarystore.LibraryCounts, error) {
	return h.store.Counts(librarystore.WithEventualConsistency(ctx), query.Now)
}
