package updatebook

import (
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// State is the book as read inside the transaction plus the resolved category.
type State struct {
	BookFound  bool
	Current    librarystore.Book
	CategoryID uuid.UUID
}

// Decide applies the edit to the current book.
//
// Business Rules:
//
//	GIVEN: a book with BookID
//	WHEN: UpdateBook command is received
//	THEN: BookUpdated event is generated and the updated record is returned
//	COPIES: available' = clamp(available + (total' - total), 0, total')
//	STATUS: maintenance if the override is set, else available iff available' > 0, else borrowed
//	ERROR: validation error for a blank title or category name or a negative number
//	ERROR: "book not found" if the book does not exist
func Decide(s State, command Command) (librarystore.Book, core.DecisionResult) {
	if err := command.Validate(); err != nil {
		return librarystore.Book{}, core.RejectedDecision(err)
	}

	if !s.BookFound {
		return librarystore.Book{}, core.RejectedDecision(core.ErrBookNotFound)
	}

	updated := s.Current
	updated.Title = command.Title
	updated.CategoryID = s.CategoryID
	updated.UpdatedAt = command.OccurredAt

	if command.PublishedYear != nil {
		updated.PublishedYear = *command.PublishedYear
	}

	assignTrimmed(&updated.ISBN, command.ISBN)
	assignTrimmed(&updated.Publisher, command.Publisher)
	assignTrimmed(&updated.Language, command.Language)
	assignTrimmed(&updated.CoverImage, command.CoverImage)

	if command.Summary != nil {
		updated.Summary = *command.Summary
	}

	if command.TotalCopies != nil {
		updated.TotalCopies = *command.TotalCopies
		updated.AvailableCopies = core.AdjustAvailableCopies(s.Current.AvailableCopies, s.Current.TotalCopies, *command.TotalCopies)
	}

	maintenance := s.Current.Status == librarystore.BookStatusMaintenance
	if command.Maintenance != nil {
		maintenance = *command.Maintenance
	}

	updated.Status = core.DeriveBookStatus(updated.AvailableCopies, maintenance)

	return updated, core.SuccessDecision(
		core.BuildBookUpdated(
			updated.ID,
			updated.Title,
			updated.TotalCopies,
			updated.AvailableCopies,
			updated.Status,
			command.OccurredAt,
		),
	)
}

func assignTrimmed(target *string, value *string) {
	if value != nil {
		*target = strings.TrimSpace(*value)
	}
}
