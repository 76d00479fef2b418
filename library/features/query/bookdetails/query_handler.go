package bookdetails

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	BookViewByID(ctx context.Context, bookID uuid.UUID) (librarystore.BookView, error)
}

// QueryHandler loads one book with its display fields.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns core.ErrBookNotFound for an unknown id.
func (h QueryHandler) Handle(ctx context.Context, query Query) (librarystore.BookView, error) {
	view, err := h.store.BookViewByID(librarystore.WithEventualConsistency(ctx), query.BookID)
	if errors.Is(err, librarystore.ErrRecordNotFound) {
		return librarystore.BookView{}, core.ErrBookNotFound
	}

	return view, err
}
