package issuereminders

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	commandType = "IssueReminders"
)

// Command represents the intent of an admin to remind all borrowers with overdue loans.
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
