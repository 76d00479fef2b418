package categories

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	ListCategories(ctx context.Context) ([]librarystore.Category, error)
}

type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

func (h QueryHandler) Handle(ctx context.Context, _ Query) ([]librarystore.Category, error) {
	return h.store.ListCategories(librarystore.WithEventualConsistency(ctx))
}
