package borrowbook

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// CommandHandler orchestrates the borrow workflow inside one transaction:
// Read -> Decide -> Take copy -> Insert loan -> Record event. The event is published after commit.
// External wrappers handle all observability concerns.
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

// Handle borrows a copy and returns the new loan.
// A business rejection is recorded in the activity log and returned as the matching core error.
func (h CommandHandler) Handle(ctx context.Context, command Command) (librarystore.Loan, error) {
	var (
		result core.DecisionResult
		loan   librarystore.Loan
	)

	ctx = librarystore.WithStrongConsistency(ctx)

	err := h.store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		var execErr error

		result, loan, execErr = h.executeCommand(ctx, tx, command)
		if execErr != nil {
			return execErr
		}

		return shell.AppendActivity(ctx, tx, result.Event)
	})

	if errors.Is(err, librarystore.ErrDuplicateActiveLoan) {
		return librarystore.Loan{}, core.ErrAlreadyBorrowed // a racing borrow of the same user won
	}

	if err != nil {
		return librarystore.Loan{}, err
	}

	h.publisher.Publish(ctx, result.Event)

	if decisionErr := result.HasError(); decisionErr != nil {
		return librarystore.Loan{}, decisionErr
	}

	return loan, nil
}

func (h CommandHandler) executeCommand(
	ctx context.Context,
	tx librarystore.Tx,
	command Command,
) (core.DecisionResult, librarystore.Loan, error) {

	s, err := readState(ctx, tx, command)
	if err != nil {
		return core.DecisionResult{}, librarystore.Loan{}, err
	}

	result := Decide(s, command)
	if !result.IsSuccess() {
		return result, librarystore.Loan{}, nil
	}

	taken, err := tx.TakeCopy(ctx, command.BookID, command.OccurredAt)
	if err != nil {
		return core.DecisionResult{}, librarystore.Loan{}, err
	}

	if !taken {
		// The book changed after it was read, so decide again on what is stored now.
		if s, err = readState(ctx, tx, command); err != nil {
			return core.DecisionResult{}, librarystore.Loan{}, err
		}

		result = Decide(s, command)
		if result.IsSuccess() {
			result = reject(command, failureReasonNoCopiesAvailable, core.ErrNoCopiesAvailable)
		}

		return result, librarystore.Loan{}, nil
	}

	loan := librarystore.Loan{
		ID:         command.LoanID,
		UserID:     command.UserID,
		BookID:     command.BookID,
		BorrowDate: command.OccurredAt,
		DueDate:    core.DueDateFor(command.OccurredAt),
		Status:     librarystore.LoanStatusActive,
		Notes:      command.Notes,
	}

	if err = tx.InsertLoan(ctx, loan); err != nil {
		return core.DecisionResult{}, librarystore.Loan{}, err
	}

	return result, loan, nil
}

func readState(ctx context.Context, tx librarystore.Tx, command Command) (State, error) {
	book, err := tx.BookByID(ctx, command.BookID)
	if errors.Is(err, librarystore.ErrRecordNotFound) {
		return State{}, nil
	}

	if err != nil {
		return State{}, err
	}

	alreadyBorrowed, err := tx.HasActiveLoan(ctx, command.UserID, command.BookID)
	if err != nil {
		return State{}, err
	}

	return State{
		BookFound:        true,
		AvailableCopies:  book.AvailableCopies,
		UnderMaintenance: book.Status == librarystore.BookStatusMaintenance,
		AlreadyBorrowed:  alreadyBorrowed,
	}, nil
}
