package shell

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CommandHandler processes a command and returns its result.
// Implementations focus on business logic; the observable wrappers add metrics, tracing and logging.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// QueryHandler processes a query and returns its projection.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// EventPublisher fans recorded domain events out to live subscribers after a transaction committed.
// Publishing never fails the operation that produced the events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...core.DomainEvent)
}

// NoopPublisher drops all events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...core.DomainEvent) {}
