package addbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	commandType           = "AddBook"
	autoCreateCommandType = "AddBookByName"
)

// Details are the descriptive fields of a new book. Nil pointers select the defaults.
type Details struct {
	Title         string
	ISBN          string
	Publisher     string
	PublishedYear *int
	Summary       string
	Language      string
	CoverImage    string
	TotalCopies   *int
}

// Command represents the intent to add a book by an existing author to an existing category.
type Command struct {
	BookID     uuid.UUID
	AuthorID   uuid.UUID
	CategoryID uuid.UUID
	Details    Details
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID, authorID, categoryID uuid.UUID, details Details, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		AuthorID:   authorID,
		CategoryID: categoryID,
		Details:    details,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// AutoCreateCommand represents the intent to add a book naming its author and category.
type AutoCreateCommand struct {
	BookID       uuid.UUID
	AuthorName   string
	CategoryName string
	Details      Details
	OccurredAt   core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c AutoCreateCommand) CommandType() string {
	return autoCreateCommandType
}

// BuildAutoCreateCommand creates a new AutoCreateCommand. Names are trimmed.
func BuildAutoCreateCommand(
	bookID uuid.UUID,
	authorName string,
	categoryName string,
	details Details,
	occurredAt time.Time,
) AutoCreateCommand {

	return AutoCreateCommand{
		BookID:       bookID,
		AuthorName:   trim(authorName),
		CategoryName: trim(categoryName),
		Details:      details,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}

// withResolvedNames turns the command into a Command for the resolved author and category.
func (c AutoCreateCommand) withResolvedNames(authorID, categoryID uuid.UUID) Command {
	return Command{
		BookID:     c.BookID,
		AuthorID:   authorID,
		CategoryID: categoryID,
		Details:    c.Details,
		OccurredAt: c.OccurredAt,
	}
}
