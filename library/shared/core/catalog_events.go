package core

import (
	"time"

	"github.com/google/uuid"
)

// Event type identifiers of catalog maintenance.
const (
	BookAddedToCatalogEventType     = "BookAddedToCatalog"
	BookUpdatedEventType            = "BookUpdated"
	BookRemovedFromCatalogEventType = "BookRemovedFromCatalog"
	RemovingBookFailedEventType     = "RemovingBookFailed"
	AuthorAddedEventType            = "AuthorAdded"
)

// BookAddedToCatalog represents when an admin added a book with its copies.
type BookAddedToCatalog struct {
	EventType   EventTypeString `json:"eventType"`
	BookID      BookIDString    `json:"bookId"`
	Title       string          `json:"title"`
	AuthorID    string          `json:"authorId"`
	CategoryID  string          `json:"categoryId"`
	ISBN        string          `json:"isbn,omitempty"`
	TotalCopies int             `json:"totalCopies"`
	OccurredAt  OccurredAtTS    `json:"occurredAt"`
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(
	bookID uuid.UUID,
	title string,
	authorID uuid.UUID,
	categoryID uuid.UUID,
	isbn string,
	totalCopies int,
	occurredAt time.Time,
) BookAddedToCatalog {

	return BookAddedToCatalog{
		EventType:   BookAddedToCatalogEventType,
		BookID:      bookID.String(),
		Title:       title,
		AuthorID:    authorID.String(),
		CategoryID:  categoryID.String(),
		ISBN:        isbn,
		TotalCopies: totalCopies,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e BookAddedToCatalog) IsEventType() string      { return BookAddedToCatalogEventType }
func (e BookAddedToCatalog) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookAddedToCatalog) IsErrorEvent() bool       { return false }

// BookUpdated represents an admin edit. The copy counters are the ones after the edit,
// AvailableCopies already clamped.
type BookUpdated struct {
	EventType       EventTypeString `json:"eventType"`
	BookID          BookIDString    `json:"bookId"`
	Title           string          `json:"title"`
	TotalCopies     int             `json:"totalCopies"`
	AvailableCopies int             `json:"availableCopies"`
	Status          string          `json:"status"`
	OccurredAt      OccurredAtTS    `json:"occurredAt"`
}

// BuildBookUpdated creates a new BookUpdated event.
func BuildBookUpdated(bookID uuid.UUID, title string, totalCopies, availableCopies int, status string, occurredAt time.Time) BookUpdated {
	return BookUpdated{
		EventType:       BookUpdatedEventType,
		BookID:          bookID.String(),
		Title:           title,
		TotalCopies:     totalCopies,
		AvailableCopies: availableCopies,
		Status:          status,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

func (e BookUpdated) IsEventType() string      { return BookUpdatedEventType }
func (e BookUpdated) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookUpdated) IsErrorEvent() bool       { return false }

// BookRemovedFromCatalog represents when a book without active loans was deleted.
// ReturnedLoansDeleted counts the closed loans that went with it.
type BookRemovedFromCatalog struct {
	EventType            EventTypeString `json:"eventType"`
	BookID               BookIDString    `json:"bookId"`
	Title                string          `json:"title"`
	ReturnedLoansDeleted int64           `json:"returnedLoansDeleted"`
	OccurredAt           OccurredAtTS    `json:"occurredAt"`
}

// BuildBookRemovedFromCatalog creates a new BookRemovedFromCatalog event.
func BuildBookRemovedFromCatalog(bookID uuid.UUID, title string, returnedLoansDeleted int64, occurredAt time.Time) BookRemovedFromCatalog {
	return BookRemovedFromCatalog{
		EventType:            BookRemovedFromCatalogEventType,
		BookID:               bookID.String(),
		Title:                title,
		ReturnedLoansDeleted: returnedLoansDeleted,
		OccurredAt:           ToOccurredAt(occurredAt),
	}
}

func (e BookRemovedFromCatalog) IsEventType() string      { return BookRemovedFromCatalogEventType }
func (e BookRemovedFromCatalog) HasOccurredAt() time.Time { return e.OccurredAt }
func (e BookRemovedFromCatalog) IsErrorEvent() bool       { return false }

// RemovingBookFailed represents a rejected removal, e.g. while copies are lent out.
type RemovingBookFailed struct {
	EventType   EventTypeString `json:"eventType"`
	BookID      BookIDString    `json:"bookId"`
	FailureInfo string          `json:"failureInfo"`
	OccurredAt  OccurredAtTS    `json:"occurredAt"`
}

// BuildRemovingBookFailed creates a new RemovingBookFailed event.
func BuildRemovingBookFailed(bookID uuid.UUID, failureInfo string, occurredAt time.Time) RemovingBookFailed {
	return RemovingBookFailed{
		EventType:   RemovingBookFailedEventType,
		BookID:      bookID.String(),
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e RemovingBookFailed) IsEventType() string      { return RemovingBookFailedEventType }
func (e RemovingBookFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e RemovingBookFailed) IsErrorEvent() bool       { return true }

// AuthorAdded represents when an admin created an author explicitly.
type AuthorAdded struct {
	EventType  EventTypeString `json:"eventType"`
	AuthorID   string          `json:"authorId"`
	Name       string          `json:"name"`
	OccurredAt OccurredAtTS    `json:"occurredAt"`
}

// BuildAuthorAdded creates a new AuthorAdded event.
func BuildAuthorAdded(authorID uuid.UUID, name string, occurredAt time.Time) AuthorAdded {
	return AuthorAdded{
		EventType:  AuthorAddedEventType,
		AuthorID:   authorID.String(),
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e AuthorAdded) IsEventType() string      { return AuthorAddedEventType }
func (e AuthorAdded) HasOccurredAt() time.Time { return e.OccurredAt }
func (e AuthorAdded) IsErrorEvent() bool       { return false }
