package registeruser

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/auth"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// CommandHandler validates, hashes the password, then inserts the user and records the event in one transaction.
type CommandHandler struct {
	store     librarystore.Transactor
	hasher    auth.PasswordHasher
	publisher shell.EventPublisher
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithPublisher sets the publisher that receives the recorded event after commit.
func WithPublisher(publisher shell.EventPublisher) Option {
	return func(h *CommandHandler) {
		h.publisher = publisher
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store librarystore.Transactor, hasher auth.PasswordHasher, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:     store,
		hasher:    hasher,
		publisher: shell.NoopPublisher{},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle registers the user and returns the stored record.
// Duplicates yield core.ErrEmailTaken or core.ErrUniversityIDTaken.
func (h CommandHandler) Handle(ctx context.Context, command Command) (librarystore.User, error) {
	result := Decide(command)
	if !result.IsSuccess() {
		return librarystore.User{}, result.HasError()
	}

	passwordHash, err := h.hasher.Hash(command.Password)
	if err != nil {
		if errors.Is(err, auth.ErrHashingPasswordFailed) && len(command.Password) > 72 {
			return librarystore.User{}, core.ValidationError("password", "password must not exceed 72 bytes")
		}

		return librarystore.User{}, err
	}

	user := NewUser(command, passwordHash)

	err = h.store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		if insertErr := tx.InsertUser(ctx, user); insertErr != nil {
			return insertErr
		}

		return shell.AppendActivity(ctx, tx, result.Event)
	})

	switch {
	case errors.Is(err, librarystore.ErrDuplicateEmail):
		return librarystore.User{}, core.ErrEmailTaken
	case errors.Is(err, librarystore.ErrDuplicateUniversityID):
		return librarystore.User{}, core.ErrUniversityIDTaken
	case err != nil:
		return librarystore.User{}, err
	}

	h.publisher.Publish(ctx, result.Event)

	return user, nil
}
