package addbook

import (
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const (
	defaultLanguage    = "Arabic"
	defaultTotalCopies = 1
)

// State tells Decide whether the referenced author and category exist.
type State struct {
	AuthorFound   bool
	CategoryFound bool
}

// Decide validates the new book and produces the BookAddedToCatalog event.
//
// Business Rules:
//
//	GIVEN: an author with AuthorID and a category with CategoryID
//	WHEN: AddBook command is received
//	THEN: BookAddedToCatalog event is generated
//	ERROR: validation error if the title is blank, an id is missing or a number is negative
//	ERROR: "author not found" / "category not found" if a reference does not exist
func Decide(s State, command Command) core.DecisionResult {
	if err := validate(command); err != nil {
		return core.RejectedDecision(err)
	}

	if !s.AuthorFound {
		return core.RejectedDecision(core.ErrAuthorNotFound)
	}

	if !s.CategoryFound {
		return core.RejectedDecision(core.ErrCategoryNotFound)
	}

	book := NewBook(command)

	return core.SuccessDecision(
		core.BuildBookAddedToCatalog(
			book.ID,
			book.Title,
			book.AuthorID,
			book.CategoryID,
			book.ISBN,
			book.TotalCopies,
			command.OccurredAt,
		),
	)
}

// NewBook builds the record to insert, applying the defaults. All copies start on the shelf.
func NewBook(command Command) librarystore.Book {
	details := command.Details

	publishedYear := command.OccurredAt.Year()
	if details.PublishedYear != nil {
		publishedYear = *details.PublishedYear
	}

	totalCopies := defaultTotalCopies
	if details.TotalCopies != nil {
		totalCopies = *details.TotalCopies
	}

	language := trim(details.Language)
	if language == "" {
		language = defaultLanguage
	}

	return librarystore.Book{
		ID:              command.BookID,
		Title:           trim(details.Title),
		AuthorID:        command.AuthorID,
		CategoryID:      command.CategoryID,
		ISBN:            trim(details.ISBN),
		Publisher:       trim(details.Publisher),
		PublishedYear:   publishedYear,
		Summary:         details.Summary,
		Language:        language,
		CoverImage:      trim(details.CoverImage),
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		Status:          core.DeriveBookStatus(totalCopies, false),
		CreatedAt:       command.OccurredAt,
		UpdatedAt:       command.OccurredAt,
	}
}

func validate(command Command) error {
	if err := ValidateDetails(command.Details); err != nil {
		return err
	}

	if command.AuthorID == uuid.Nil {
		return core.ValidationError("authorId", "authorId is required")
	}

	if command.CategoryID == uuid.Nil {
		return core.ValidationError("categoryId", "categoryId is required")
	}

	return nil
}

// ValidateDetails checks the descriptive fields shared by both ways of adding a book.
func ValidateDetails(details Details) error {
	if trim(details.Title) == "" {
		return core.ValidationError("title", "title is required")
	}

	if details.TotalCopies != nil && *details.TotalCopies < 0 {
		return core.ValidationError("totalCopies", "totalCopies must not be negative")
	}

	if details.PublishedYear != nil && *details.PublishedYear < 0 {
		return core.ValidationError("publishedYear", "publishedYear must not be negative")
	}

	return nil
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
