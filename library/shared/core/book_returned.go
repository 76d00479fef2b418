package core

import (
	"time"

	"github.com/google/uuid"
)

// BookReturnedEventType is the event type identifier.
const BookReturnedEventType = "BookReturned"

// BookReturned represents when a loan was closed and its copy went back to the shelf.
// ReturnedBy differs from UserID when an admin returned the loan.
type BookReturned struct {
	EventType  EventTypeString `json:"eventType"`
	LoanID     LoanIDString    `json:"loanId"`
	BookID     BookIDString    `json:"bookId"`
	UserID     UserIDString    `json:"userId"`
	ReturnedBy UserIDString    `json:"returnedBy"`
	OccurredAt OccurredAtTS    `json:"occurredAt"`
}

// BuildBookReturned creates a new BookReturned event.
func BuildBookReturned(loanID, bookID, userID, returnedBy uuid.UUID, occurredAt time.Time) BookReturned {
	return BookReturned{
		EventType:  BookReturnedEventType,
		LoanID:     loanID.String(),
		BookID:     bookID.String(),
		UserID:     userID.String(),
		ReturnedBy: returnedBy.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookReturned) IsEventType() string {
	return BookReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookReturned) IsErrorEvent() bool {
	return false
}
