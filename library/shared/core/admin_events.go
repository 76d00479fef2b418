package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type identifiers of admin operations.
const (
	CatalogResetEventType         = "CatalogReset"
	ReturnReminderIssuedEventType = "ReturnReminderIssued"
)

// CatalogReset summarizes one bulk reset. Failures counts the books that could not be reset.
type CatalogReset struct {
	EventType    EventTypeString `json:"eventType"`
	BooksReset   int             `json:"booksReset"`
	LoansDeleted int64           `json:"loansDeleted"`
	Failures     int             `json:"failures"`
	OccurredAt   OccurredAtTS    `json:"occurredAt"`
}

// BuildCatalogReset creates a new CatalogReset event.
func BuildCatalogReset(booksReset int, loansDeleted int64, failures int, occurredAt time.Time) CatalogReset {
	return CatalogReset{
		EventType:    CatalogResetEventType,
		BooksReset:   booksReset,
		LoansDeleted: loansDeleted,
		Failures:     failures,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e CatalogReset) IsEventType() string      { return CatalogResetEventType }
func (e CatalogReset) HasOccurredAt() time.Time { return e.OccurredAt }
func (e CatalogReset) IsErrorEvent() bool       { return e.Failures > 0 }

// ReturnReminderIssued represents a reminder for one overdue loan.
type ReturnReminderIssued struct {
	EventType   EventTypeString `json:"eventType"`
	LoanID      LoanIDString    `json:"loanId"`
	UserID      UserIDString    `json:"userId"`
	UserName    string          `json:"userName"`
	UserEmail   string          `json:"userEmail"`
	BookTitle   string          `json:"bookTitle"`
	DueDate     time.Time       `json:"dueDate"`
	DaysOverdue int             `json:"daysOverdue"`
	Fine        decimal.Decimal `json:"fine"`
	OccurredAt  OccurredAtTS    `json:"occurredAt"`
}

// BuildReturnReminderIssued creates a new ReturnReminderIssued event.
func BuildReturnReminderIssued(
	loanID uuid.UUID,
	userID uuid.UUID,
	userName string,
	userEmail string,
	bookTitle string,
	dueDate time.Time,
	standing LoanStanding,
	occurredAt time.Time,
) ReturnReminderIssued {

	return ReturnReminderIssued{
		EventType:   ReturnReminderIssuedEventType,
		LoanID:      loanID.String(),
		UserID:      userID.String(),
		UserName:    userName,
		UserEmail:   userEmail,
		BookTitle:   bookTitle,
		DueDate:     dueDate.UTC(),
		DaysOverdue: standing.DaysOverdue,
		Fine:        standing.Fine,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e ReturnReminderIssued) IsEventType() string      { return ReturnReminderIssuedEventType }
func (e ReturnReminderIssued) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReturnReminderIssued) IsErrorEvent() bool       { return false }
