package users

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	ListUsers(ctx context.Context) ([]librarystore.User, error)
}

type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

func (h QueryHandler) Handle(ctx context.Context, _ Query) ([]librarystore.User, error) {
	return h.store.ListUsers(librarystore.WithEventualConsistency(ctx))
}
