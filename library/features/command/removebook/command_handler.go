package removebook

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// CommandHandler orchestrates the removal inside one transaction:
// Read -> Decide -> Delete returned loans -> Delete book -> Record event.
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

// Handle removes the book. A loan that became active after the check makes the delete fail on the
// foreign key; that is reported as core.ErrBookHasActiveLoans and nothing is changed.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var (
		result  core.DecisionResult
		deleted int64
	)

	ctx = librarystore.WithStrongConsistency(ctx)

	err := h.store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		s, err := readState(ctx, tx, command)
		if err != nil {
			return err
		}

		result = Decide(s, command)
		if result.IsSuccess() {
			var deleteErr error
			if deleted, deleteErr = deleteBook(ctx, tx, command); deleteErr != nil {
				return deleteErr
			}

			result = WithReturnedLoansDeleted(result, deleted)
		}

		return shell.AppendActivity(ctx, tx, result.Event)
	})

	switch {
	case errors.Is(err, librarystore.ErrForeignKeyViolation):
		return Result{}, core.ErrBookHasActiveLoans
	case errors.Is(err, librarystore.ErrRecordNotFound):
		return Result{}, core.ErrBookNotFound
	case err != nil:
		return Result{}, err
	}

	h.publisher.Publish(ctx, result.Event)

	if decisionErr := result.HasError(); decisionErr != nil {
		return Result{}, decisionErr
	}

	return Result{BookID: command.BookID, ReturnedLoansDeleted: deleted}, nil
}

func deleteBook(ctx context.Context, tx librarystore.Tx, command Command) (int64, error) {
	deleted, err := tx.DeleteReturnedLoansForBook(ctx, command.BookID)
	if err != nil {
		return 0, err
	}

	if err = tx.DeleteBook(ctx, command.BookID); err != nil {
		return 0, err
	}

	return deleted, nil
}

func readState(ctx context.Context, tx librarystore.Tx, command Command) (State, error) {
	book, err := tx.BookByID(ctx, command.BookID)
	if errors.Is(err, librarystore.ErrRecordNotFound) {
		return State{}, nil
	}

	if err != nil {
		return State{}, err
	}

	activeLoans, err := tx.CountActiveLoansForBook(ctx, command.BookID)
	if err != nil {
		return State{}, err
	}

	return State{BookFound: true, Title: book.Title, ActiveLoans: activeLoans}, nil
}
