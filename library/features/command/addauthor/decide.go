package addauthor

import (
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Decide validates the author and produces the AuthorAdded event. Name uniqueness is left to the store.
//
// Business Rules:
//
//	WHEN: AddAuthor command is received
//	THEN: AuthorAdded event is generated
//	ERROR: validation error if the name is blank or a year is negative or the death precedes the birth
func Decide(command Command) core.DecisionResult {
	if command.Name == "" {
		return core.RejectedDecision(core.ValidationError("name", "name is required"))
	}

	if command.BirthYear != nil && *command.BirthYear < 0 {
		return core.RejectedDecision(core.ValidationError("birthYear", "birthYear must not be negative"))
	}

	if command.DeathYear != nil && *command.DeathYear < 0 {
		return core.RejectedDecision(core.ValidationError("deathYear", "deathYear must not be negative"))
	}

	if command.BirthYear != nil && command.DeathYear != nil && *command.DeathYear < *command.BirthYear {
		return core.RejectedDecision(core.ValidationError("deathYear", "deathYear must not precede birthYear"))
	}

	return core.SuccessDecision(core.BuildAuthorAdded(command.AuthorID, command.Name, command.OccurredAt))
}

// NewAuthor builds the record to insert.
func NewAuthor(command Command) librarystore.Author {
	return librarystore.Author{
		ID:          command.AuthorID,
		Name:        command.Name,
		Bio:         command.Bio,
		Nationality: command.Nationality,
		BirthYear:   command.BirthYear,
		DeathYear:   command.DeathYear,
		CreatedAt:   command.OccurredAt,
	}
}
