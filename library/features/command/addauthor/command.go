package addauthor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	commandType = "AddAuthor"
)

// Command represents the intent of an admin to add an author.
type Command struct {
	AuthorID    uuid.UUID
	Name        string
	Bio         string
	Nationality string
	BirthYear   *int
	DeathYear   *int
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. Name and nationality are trimmed.
func BuildCommand(authorID uuid.UUID, name, bio, nationality string, birthYear, deathYear *int, occurredAt time.Time) Command {
	return Command{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(name),
		Bio:         bio,
		Nationality: strings.TrimSpace(nationality),
		BirthYear:   birthYear,
		DeathYear:   deathYear,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
