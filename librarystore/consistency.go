package librarystore

import "context"

// ConsistencyLevel defines the consistency requirements for read operations.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary database. Command handlers use it because they
	// read copy counters and loan state that they are about to change.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica when one is configured. Catalog searches,
	// loan listings and dashboard counts can tolerate slightly stale data.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "librarystore.consistency_level"

// WithStrongConsistency returns a context that routes reads to the primary database.
//
//	ctx = librarystore.WithStrongConsistency(ctx)
//	book, err := store.BookByID(ctx, bookID)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that allows reads from a replica.
//
//	ctx = librarystore.WithEventualConsistency(ctx)
//	books, total, err := store.SearchBooks(ctx, filter)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context.
// Without an explicit level, StrongConsistency is returned.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String provides a string representation of ConsistencyLevel for logging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
