package returnloan

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

const (
	commandType = "ReturnLoan"
)

// Command represents the intent to return a borrowed copy.
type Command struct {
	LoanID     uuid.UUID
	Actor      shell.Actor
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID uuid.UUID, actor shell.Actor, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		Actor:      actor,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
