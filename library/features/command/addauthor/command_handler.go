package addauthor

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// CommandHandler inserts the author and records the event in one transaction.
type CommandHandler struct {
	store     librarystore.Transactor
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
func NewCommandHandler(store librarystore.Transactor, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:     store,
		publisher: shell.NoopPublisher{},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle adds the author and returns it. An existing name yields core.ErrAuthorNameTaken.
func (h CommandHandler) Handle(ctx context.Context, command Command) (librarystore.Author, error) {
	result := Decide(command)
	if !result.IsSuccess() {
		return librarystore.Author{}, result.HasError()
	}

	author := NewAuthor(command)

	err := h.store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		if err := tx.InsertAuthor(ctx, author); err != nil {
			return err
		}

		return shell.AppendActivity(ctx, tx, result.Event)
	})

	if errors.Is(err, librarystore.ErrDuplicateAuthorName) {
		return librarystore.Author{}, core.ErrAuthorNameTaken
	}

	if err != nil {
		return librarystore.Author{}, err
	}

	h.publisher.Publish(ctx, result.Event)

	return author, nil
}
