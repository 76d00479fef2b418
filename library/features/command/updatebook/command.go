package updatebook

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
)

const (
	commandType = "UpdateBook"
)

// Command represents an admin edit of a book. Nil pointers keep the stored value.
type Command struct {
	BookID        uuid.UUID
	Title         string
	CategoryName  string
	PublishedYear *int
	Summary       *string
	TotalCopies   *int
	ISBN          *string
	Publisher     *string
	Language      *string
	CoverImage    *string
	Maintenance   *bool
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. Title and category name are trimmed; set the optional fields
// on the returned value.
func BuildCommand(bookID uuid.UUID, title, categoryName string, occurredAt time.Time) Command {
	return Command{
		BookID:       bookID,
		Title:        strings.TrimSpace(title),
		CategoryName: strings.TrimSpace(categoryName),
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the fields that can be judged without reading the book.
func (c Command) Validate() error {
	if c.Title == "" {
		return core.ValidationError("title", "title is required")
	}

	if c.CategoryName == "" {
		return core.ValidationError("categoryName", "categoryName is required")
	}

	if c.TotalCopies != nil && *c.TotalCopies < 0 {
		return core.ValidationError("totalCopies", "totalCopies must not be negative")
	}

	if c.PublishedYear != nil && *c.PublishedYear < 0 {
		return core.ValidationError("publishedYear", "publishedYear must not be negative")
	}

	return nil
}
