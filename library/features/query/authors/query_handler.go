package authors

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	ListAuthors(ctx context.Context) ([]librarystore.Author, error)
}

type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

func (h QueryHandler) Handle(ctx context.Context, _ Query) ([]librarystore.Author, error) {
	return h.store.ListAuthors(librarystore.WithEventualConsistency(ctx))
}
