package resetcatalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

var errBookVanished = core.NotFoundError("book was removed during the reset")

// Store is what the reset needs from storage.
type Store interface {
	librarystore.Transactor
	shell.ActivityAppender
	BookIDs(ctx context.Context) ([]uuid.UUID, error)
}

// CommandHandler runs the best-effort reset.
type CommandHandler struct {
	store     Store
	publisher shell.EventPublisher
	logger    shell.ContextualLogger
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithPublisher sets the publisher that receives the recorded event.
func WithPublisher(publisher shell.EventPublisher) Option {
	return func(h *CommandHandler) {
		h.publisher = publisher
	}
}

// WithLogger logs every book that could not be reset.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store Store, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:     store,
		publisher: shell.NoopPublisher{},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle resets all books and records one CatalogReset event. Per-book failures are part of the
// Result; only listing the books or a canceled context fail the whole call.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	ctx = librarystore.WithStrongConsistency(ctx)

	bookIDs, err := h.store.BookIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Errors: []ItemError{}}

	for _, bookID := range bookIDs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}

		deleted, resetErr := h.resetBook(ctx, bookID, command)
		if resetErr != nil {
			h.logFailure(ctx, bookID, resetErr)
			result.Errors = append(result.Errors, ItemError{BookID: bookID, Error: core.AsError(resetErr).Message})

			continue
		}

		result.BooksReset++
		result.LoansDeleted += deleted
	}

	event := core.BuildCatalogReset(result.BooksReset, result.LoansDeleted, len(result.Errors), command.OccurredAt)

	if err = shell.AppendActivity(ctx, h.store, event); err != nil {
		return Result{}, err
	}

	h.publisher.Publish(ctx, event)

	return result, nil
}

func (h CommandHandler) resetBook(ctx context.Context, bookID uuid.UUID, command Command) (int64, error) {
	var deleted int64

	err := h.store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		var err error

		if deleted, err = tx.DeleteLoansForBook(ctx, bookID); err != nil {
			return err
		}

		restored, err := tx.RestoreCopies(ctx, bookID, command.OccurredAt)
		if err != nil {
			return err
		}

		if !restored {
			return errBookVanished
		}

		return nil
	})

	return deleted, err
}

func (h CommandHandler) logFailure(ctx context.Context, bookID uuid.UUID, err error) {
	if h.logger == nil {
		return
	}

	h.logger.WarnContext(ctx, "resetting book failed", "book_id", bookID.String(), shell.LogAttrError, err.Error())
}
