package core

import (
	"time"

	"github.com/google/uuid"
)

// BorrowingBookFailedEventType is the event type identifier.
const BorrowingBookFailedEventType = "BorrowingBookFailed"

// BorrowingBookFailed represents when borrowing a book was rejected by a business rule.
type BorrowingBookFailed struct {
	EventType   EventTypeString `json:"eventType"`
	BookID      BookIDString    `json:"bookId"`
	UserID      UserIDString    `json:"userId"`
	FailureInfo string          `json:"failureInfo"`
	OccurredAt  OccurredAtTS    `json:"occurredAt"`
}

// BuildBorrowingBookFailed creates a new BorrowingBookFailed event.
func BuildBorrowingBookFailed(bookID, userID uuid.UUID, failureInfo string, occurredAt time.Time) BorrowingBookFailed {
	return BorrowingBookFailed{
		EventType:   BorrowingBookFailedEventType,
		BookID:      bookID.String(),
		UserID:      userID.String(),
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BorrowingBookFailed) IsEventType() string {
	return BorrowingBookFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BorrowingBookFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a rejected operation.
func (e BorrowingBookFailed) IsErrorEvent() bool {
	return true
}
