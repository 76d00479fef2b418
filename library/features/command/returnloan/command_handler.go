package returnloan

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// CommandHandler orchestrates the return workflow inside one transaction:
// Read -> Decide -> Close loan -> Put copy back -> Record event. The event is published after commit.
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

// Handle closes the loan and returns it in its returned state.
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

	loan, err := tx.LoanByID(ctx, command.LoanID)
	if err != nil && !errors.Is(err, librarystore.ErrRecordNotFound) {
		return core.DecisionResult{}, librarystore.Loan{}, err
	}

	s := State{
		LoanFound:       err == nil,
		BookID:          loan.BookID,
		BorrowerID:      loan.UserID,
		AlreadyReturned: loan.Status == librarystore.LoanStatusReturned,
	}

	result := Decide(s, command)
	if !result.IsSuccess() {
		return result, librarystore.Loan{}, nil
	}

	closed, err := tx.CloseLoan(ctx, command.LoanID, command.OccurredAt)
	if err != nil {
		return core.DecisionResult{}, librarystore.Loan{}, err
	}

	if !closed {
		// A concurrent return closed the loan after it was read.
		s.AlreadyReturned = true

		return Decide(s, command), librarystore.Loan{}, nil
	}

	if _, err = tx.ReturnCopy(ctx, loan.BookID, command.OccurredAt); err != nil {
		return core.DecisionResult{}, librarystore.Loan{}, err
	}

	returnedAt := command.OccurredAt
	loan.Status = librarystore.LoanStatusReturned
	loan.ReturnDate = &returnedAt

	return result, loan, nil
}
