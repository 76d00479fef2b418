package updatebook

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// CommandHandler runs the edit in one transaction:
// Read book -> Find or create category -> Decide -> Compare-and-set -> Record event.
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

// Handle applies the edit and returns the updated book. A concurrent change of the copy counters
// yields core.ErrBookChanged; nothing is retried.
func (h CommandHandler) Handle(ctx context.Context, command Command) (librarystore.Book, error) {
	if err := command.Validate(); err != nil {
		return librarystore.Book{}, err
	}

	var (
		result  core.DecisionResult
		updated librarystore.Book
	)

	ctx = librarystore.WithStrongConsistency(ctx)

	err := h.store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		s, err := readState(ctx, tx, command)
		if err != nil {
			return err
		}

		updated, result = Decide(s, command)
		if !result.IsSuccess() {
			return nil
		}

		if err = tx.UpdateBook(ctx, s.Current, updated); err != nil {
			return err
		}

		return shell.AppendActivity(ctx, tx, result.Event)
	})

	switch {
	case errors.Is(err, librarystore.ErrConcurrencyConflict):
		return librarystore.Book{}, errors.Join(core.ErrBookChanged, err)
	case errors.Is(err, librarystore.ErrDuplicateISBN):
		return librarystore.Book{}, core.ErrISBNTaken
	case err != nil:
		return librarystore.Book{}, err
	}

	if decisionErr := result.HasError(); decisionErr != nil {
		return librarystore.Book{}, decisionErr
	}

	h.publisher.Publish(ctx, result.Event)

	return updated, nil
}

func readState(ctx context.Context, tx librarystore.Tx, command Command) (State, error) {
	book, err := tx.BookByID(ctx, command.BookID)
	if errors.Is(err, librarystore.ErrRecordNotFound) {
		return State{}, nil
	}

	if err != nil {
		return State{}, err
	}

	category, err := tx.FindOrCreateCategory(ctx, command.CategoryName, command.OccurredAt)
	if err != nil {
		return State{}, err
	}

	return State{BookFound: true, Current: book, CategoryID: category.ID}, nil
}
