package issuereminders

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Store is what issuing reminders needs from storage.
type Store interface {
	shell.ActivityAppender
	OverdueLoans(ctx context.Context, now time.Time) ([]librarystore.LoanView, error)
}

// CommandHandler builds one ReturnReminderIssued event per overdue loan.
type CommandHandler struct {
	store     Store
	policy    core.LoanPolicy
	publisher shell.EventPublisher
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithPublisher sets the publisher that receives the reminders after they were recorded.
func WithPublisher(publisher shell.EventPublisher) Option {
	return func(h *CommandHandler) {
		h.publisher = publisher
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store Store, policy core.LoanPolicy, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:     store,
		policy:    policy,
		publisher: shell.NoopPublisher{},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the reminders in due date order, oldest first. No overdue loans is not an error.
func (h CommandHandler) Handle(ctx context.Context, command Command) ([]core.ReturnReminderIssued, error) {
	loans, err := h.store.OverdueLoans(librarystore.WithStrongConsistency(ctx), command.OccurredAt)
	if err != nil {
		return nil, err
	}

	reminders := make([]core.ReturnReminderIssued, 0, len(loans))
	events := make([]core.DomainEvent, 0, len(loans))

	for _, loan := range loans {
		reminder := Decide(loan, h.policy, command)
		reminders = append(reminders, reminder)
		events = append(events, reminder)
	}

	if err = shell.AppendActivity(ctx, h.store, events...); err != nil {
		return nil, err
	}

	h.publisher.Publish(ctx, events...)

	return reminders, nil
}

// Decide derives the reminder for one overdue loan at the time of the command.
func Decide(loan librarystore.LoanView, policy core.LoanPolicy, command Command) core.ReturnReminderIssued {
	standing := policy.StandingOf(loan.Status == librarystore.LoanStatusActive, loan.DueDate, command.OccurredAt)

	return core.BuildReturnReminderIssued(
		loan.ID,
		loan.UserID,
		loan.UserName,
		loan.UserEmail,
		loan.BookTitle,
		loan.DueDate,
		standing,
		command.OccurredAt,
	)
}
