package core

import (
	"time"

	"github.com/google/uuid"
)

// BookBorrowedEventType is the event type identifier.
const BookBorrowedEventType = "BookBorrowed"

// BookBorrowed represents when a user borrowed a copy of a book.
type BookBorrowed struct {
	EventType  EventTypeString `json:"eventType"`
	LoanID     LoanIDString    `json:"loanId"`
	BookID     BookIDString    `json:"bookId"`
	UserID     UserIDString    `json:"userId"`
	DueDate    time.Time       `json:"dueDate"`
	OccurredAt OccurredAtTS    `json:"occurredAt"`
}

// BuildBookBorrowed creates a new BookBorrowed event. The due date follows the loan period.
func BuildBookBorrowed(loanID, bookID, userID uuid.UUID, occurredAt time.Time) BookBorrowed {
	at := ToOccurredAt(occurredAt)

	return BookBorrowed{
		EventType:  BookBorrowedEventType,
		LoanID:     loanID.String(),
		BookID:     bookID.String(),
		UserID:     userID.String(),
		DueDate:    DueDateFor(at),
		OccurredAt: at,
	}
}

// IsEventType returns the event type identifier.
func (e BookBorrowed) IsEventType() string {
	return BookBorrowedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookBorrowed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookBorrowed) IsErrorEvent() bool {
	return false
}
