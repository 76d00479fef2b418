package core

import (
	"time"
)

// A few alias types instead of full value objects.

// EventTypeString is the identifier of a domain event type.
type EventTypeString = string

// BookIDString represents a book identifier.
type BookIDString = string

// UserIDString represents a user identifier.
type UserIDString = string

// LoanIDString represents a loan identifier.
type LoanIDString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and second precision,
// which is the precision both SQL dialects store.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Second)
}
