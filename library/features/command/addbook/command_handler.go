package addbook

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// CommandHandler adds a book for an existing author and category in one transaction:
// Read references -> Decide -> Insert -> Record event.
type CommandHandler struct {
	store     librarystore.Transactor
	publisher shell.EventPublisher
}

// Option configures the handlers of this package.
type Option func(*handlerConfig)

type handlerConfig struct {
	publisher shell.EventPublisher
}

// WithPublisher sets the publisher that receives the recorded event after commit.
func WithPublisher(publisher shell.EventPublisher) Option {
	return func(c *handlerConfig) {
		c.publisher = publisher
	}
}

func applyOptions(opts []Option) handlerConfig {
	cfg := handlerConfig{publisher: shell.NoopPublisher{}}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store librarystore.Transactor, opts ...Option) CommandHandler {
	cfg := applyOptions(opts)

	return CommandHandler{store: store, publisher: cfg.publisher}
}

// Handle adds the book and returns the stored record.
func (h CommandHandler) Handle(ctx context.Context, command Command) (librarystore.Book, error) {
	var result core.DecisionResult

	err := h.store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		s, err := readState(ctx, tx, command)
		if err != nil {
			return err
		}

		result = Decide(s, command)
		if !result.IsSuccess() {
			return nil
		}

		return insertAndRecord(ctx, tx, command, result)
	})

	return finish(ctx, h.publisher, command, result, err)
}

func readState(ctx context.Context, tx librarystore.Tx, command Command) (State, error) {
	var s State

	if command.AuthorID == uuid.Nil || command.CategoryID == uuid.Nil {
		return s, nil // Decide rejects the missing id
	}

	if _, err := tx.AuthorByID(ctx, command.AuthorID); err == nil {
		s.AuthorFound = true
	} else if !errors.Is(err, librarystore.ErrRecordNotFound) {
		return s, err
	}

	if _, err := tx.CategoryByID(ctx, command.CategoryID); err == nil {
		s.CategoryFound = true
	} else if !errors.Is(err, librarystore.ErrRecordNotFound) {
		return s, err
	}

	return s, nil
}

// AutoCreateCommandHandler adds a book naming its author and category. Both are found or created
// in the same transaction that inserts the book.
type AutoCreateCommandHandler struct {
	store     librarystore.Transactor
	publisher shell.EventPublisher
}

// NewAutoCreateCommandHandler creates a new AutoCreateCommandHandler with optional configuration.
func NewAutoCreateCommandHandler(store librarystore.Transactor, opts ...Option) AutoCreateCommandHandler {
	cfg := applyOptions(opts)

	return AutoCreateCommandHandler{store: store, publisher: cfg.publisher}
}

// Handle adds the book and returns the stored record.
func (h AutoCreateCommandHandler) Handle(ctx context.Context, command AutoCreateCommand) (librarystore.Book, error) {
	if err := validateNames(command); err != nil {
		return librarystore.Book{}, err
	}

	var (
		result   core.DecisionResult
		resolved Command
	)

	err := h.store.WithTransaction(ctx, func(tx librarystore.Tx) error {
		author, err := tx.FindOrCreateAuthor(ctx, command.AuthorName, command.OccurredAt)
		if err != nil {
			return err
		}

		category, err := tx.FindOrCreateCategory(ctx, command.CategoryName, command.OccurredAt)
		if err != nil {
			return err
		}

		resolved = command.withResolvedNames(author.ID, category.ID)

		result = Decide(State{AuthorFound: true, CategoryFound: true}, resolved)
		if !result.IsSuccess() {
			return nil
		}

		return insertAndRecord(ctx, tx, resolved, result)
	})

	return finish(ctx, h.publisher, resolved, result, err)
}

func validateNames(command AutoCreateCommand) error {
	if err := ValidateDetails(command.Details); err != nil {
		return err
	}

	if command.AuthorName == "" {
		return core.ValidationError("authorName", "authorName is required")
	}

	if command.CategoryName == "" {
		return core.ValidationError("categoryName", "categoryName is required")
	}

	return nil
}

func insertAndRecord(ctx context.Context, tx librarystore.Tx, command Command, result core.DecisionResult) error {
	if err := tx.InsertBook(ctx, NewBook(command)); err != nil {
		if errors.Is(err, librarystore.ErrDuplicateISBN) {
			return core.ErrISBNTaken
		}

		return err
	}

	return shell.AppendActivity(ctx, tx, result.Event)
}

func finish(
	ctx context.Context,
	publisher shell.EventPublisher,
	command Command,
	result core.DecisionResult,
	err error,
) (librarystore.Book, error) {

	if err != nil {
		return librarystore.Book{}, err
	}

	if decisionErr := result.HasError(); decisionErr != nil {
		return librarystore.Book{}, decisionErr
	}

	publisher.Publish(ctx, result.Event)

	return NewBook(command), nil
}
