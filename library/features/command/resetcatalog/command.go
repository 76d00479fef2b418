package resetcatalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	commandType = "ResetCatalog"
)

// Command represents the intent of an admin to reset all books.
type Command struct {
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(occurredAt time.Time) Command {
	return Command{OccurredAt: core.ToOccurredAt(occurredAt)}
}

// ItemError reports one book that could not be reset.
type ItemError struct {
	BookID uuid.UUID
	Error  string
}

// Result summarizes the batch.
type Result struct {
	BooksReset   int
	LoansDeleted int64
	Errors       []ItemError
}
