package core

import (
	"time"

	"github.com/google/uuid"
)

// ReturningBookFailedEventType is the event type identifier.
const ReturningBookFailedEventType = "ReturningBookFailed"

// ReturningBookFailed represents when returning a loan was rejected by a business rule.
type ReturningBookFailed struct {
	EventType   EventTypeString `json:"eventType"`
	LoanID      LoanIDString    `json:"loanId"`
	ActorID     UserIDString    `json:"actorId"`
	FailureInfo string          `json:"failureInfo"`
	OccurredAt  OccurredAtTS    `json:"occurredAt"`
}

// BuildReturningBookFailed creates a new ReturningBookFailed event.
func BuildReturningBookFailed(loanID, actorID uuid.UUID, failureInfo string, occurredAt time.Time) ReturningBookFailed {
	return ReturningBookFailed{
		EventType:   ReturningBookFailedEventType,
		LoanID:      loanID.String(),
		ActorID:     actorID.String(),
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReturningBookFailed) IsEventType() string {
	return ReturningBookFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReturningBookFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a rejected operation.
func (e ReturningBookFailed) IsErrorEvent() bool {
	return true
}
