package borrowbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	commandType = "BorrowBook"
)

// Command represents the intent of a user to borrow a copy of a book.
type Command struct {
	LoanID     uuid.UUID
	BookID     uuid.UUID
	UserID     uuid.UUID
	Notes      string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID, bookID, userID uuid.UUID, notes string, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		BookID:     bookID,
		UserID:     userID,
		Notes:      notes,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
