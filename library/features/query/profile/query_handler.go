package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store defines what the QueryHandler needs from storage.
type Store interface {
	UserByID(ctx context.Context, userID uuid.UUID) (librarystore.User, error)
}

// QueryHandler loads the caller's user record.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns core.ErrUserNotFound if the account was deleted after the token was issued.
func (h QueryHandler) Handle(ctx context.Context, query Query) (librarystore.User, error) {
	user, err := h.store.UserByID(ctx, query.UserID)
	if errors.Is(err, librarystore.ErrRecordNotFound) {
		return librarystore.User{}, core.ErrUserNotFound
	}

	return user, err
}
