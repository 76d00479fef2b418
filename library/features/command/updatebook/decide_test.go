package updatebook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/updatebook"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

var now = time.Date(2025, time.March, 2, 9, 30, 0, 0, time.UTC)

func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func givenBookState(total, available int, status librarystore.BookStatus) updatebook.State {
	return updatebook.State{
		BookFound: true,
		Current: librarystore.Book{
			ID:              uuid.New(),
			Title:           "Cities of Salt",
			ISBN:            "978-0394755267",
			Language:        "Arabic",
			PublishedYear:   1984,
			TotalCopies:     total,
			AvailableCopies: available,
			Status:          status,
		},
		CategoryID: uuid.New(),
	}
}

func Test_Decide_AdjustsCopies(t *testing.T) {
	testCases := []struct {
		description       string
		total, available  int
		status            librarystore.BookStatus
		newTotal          int
		expectedAvailable int
		expectedStatus    librarystore.BookStatus
	}{
		{"adding copies grows the shelf", 3, 1, librarystore.BookStatusAvailable, 5, 3, librarystore.BookStatusAvailable},
		{"removing shelved copies", 3, 2, librarystore.BookStatusAvailable, 2, 1, librarystore.BookStatusAvailable},
		{"removing more copies than shelved clamps at zero", 5, 1, librarystore.BookStatusAvailable, 2, 0, librarystore.BookStatusBorrowed},
		{"adding a copy to a fully lent book", 1, 0, librarystore.BookStatusBorrowed, 2, 1, librarystore.BookStatusAvailable},
		{"zero copies", 2, 2, librarystore.BookStatusAvailable, 0, 0, librarystore.BookStatusBorrowed},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// arrange
			s := givenBookState(tc.total, tc.available, tc.status)
			command := updatebook.BuildCommand(s.Current.ID, "Cities of Salt", "Novels", now)
			command.TotalCopies = intPtr(tc.newTotal)

			// act
			updated, result := updatebook.Decide(s, command)

			// assert
			require.True(t, result.IsSuccess())
			assert.Equal(t, tc.newTotal, updated.TotalCopies)
			assert.Equal(t, tc.expectedAvailable, updated.AvailableCopies)
			assert.Equal(t, tc.expectedStatus, updated.Status)
			assert.True(t, core.CopiesAreConsistent(updated.AvailableCopies, updated.TotalCopies))

			event, ok := result.Event.(core.BookUpdated)
			require.True(t, ok, "expected BookUpdated event")
			assert.Equal(t, tc.expectedAvailable, event.AvailableCopies)
		})
	}
}

func Test_Decide_KeepsUnsetFields(t *testing.T) {
	// arrange
	s := givenBookState(3, 3, librarystore.BookStatusAvailable)
	command := updatebook.BuildCommand(s.Current.ID, " Cities of Salt (2nd ed.) ", "Novels", now)

	// act
	updated, result := updatebook.Decide(s, command)

	// assert
	require.True(t, result.IsSuccess())
	assert.Equal(t, "Cities of Salt (2nd ed.)", updated.Title)
	assert.Equal(t, s.CategoryID, updated.CategoryID)
	assert.Equal(t, "978-0394755267", updated.ISBN)
	assert.Equal(t, 1984, updated.PublishedYear)
	assert.Equal(t, 3, updated.AvailableCopies)
	assert.Equal(t, now, updated.UpdatedAt)
}

func Test_Decide_AppliesOptionalFields(t *testing.T) {
	// arrange
	s := givenBookState(3, 3, librarystore.BookStatusAvailable)
	command := updatebook.BuildCommand(s.Current.ID, "Cities of Salt", "Novels", now)
	command.ISBN = strPtr("  ")
	command.Summary = strPtr("An oil town in the desert")
	command.PublishedYear = intPtr(1987)

	// act
	updated, result := updatebook.Decide(s, command)

	// assert
	require.True(t, result.IsSuccess())
	assert.Empty(t, updated.ISBN)
	assert.Equal(t, "An oil town in the desert", updated.Summary)
	assert.Equal(t, 1987, updated.PublishedYear)
}

func Test_Decide_MaintenanceOverride(t *testing.T) {
	// arrange
	s := givenBookState(3, 2, librarystore.BookStatusAvailable)
	command := updatebook.BuildCommand(s.Current.ID, "Cities of Salt", "Novels", now)
	command.Maintenance = boolPtr(true)

	// act
	updated, result := updatebook.Decide(s, command)

	// assert
	require.True(t, result.IsSuccess())
	assert.Equal(t, librarystore.BookStatusMaintenance, updated.Status)
	assert.Equal(t, 2, updated.AvailableCopies)

	// act: an edit without the override keeps maintenance
	s.Current = updated
	kept, _ := updatebook.Decide(s, updatebook.BuildCommand(s.Current.ID, "Cities of Salt", "Novels", now))

	// assert
	assert.Equal(t, librarystore.BookStatusMaintenance, kept.Status)

	// act: clearing the override derives the status from the copies
	command.Maintenance = boolPtr(false)
	cleared, _ := updatebook.Decide(s, command)

	// assert
	assert.Equal(t, librarystore.BookStatusAvailable, cleared.Status)
}

func Test_Decide_Rejections(t *testing.T) {
	testCases := []struct {
		description string
		state       updatebook.State
		command     updatebook.Command
		expected    error
		field       string
	}{
		{
			description: "blank title",
			state:       givenBookState(1, 1, librarystore.BookStatusAvailable),
			command:     updatebook.BuildCommand(uuid.New(), "  ", "Novels", now),
			field:       "title",
		},
		{
			description: "blank category",
			state:       givenBookState(1, 1, librarystore.BookStatusAvailable),
			command:     updatebook.BuildCommand(uuid.New(), "Cities of Salt", "", now),
			field:       "categoryName",
		},
		{
			description: "negative copies",
			state:       givenBookState(1, 1, librarystore.BookStatusAvailable),
			command: func() updatebook.Command {
				c := updatebook.BuildCommand(uuid.New(), "Cities of Salt", "Novels", now)
				c.TotalCopies = intPtr(-1)
				return c
			}(),
			field: "totalCopies",
		},
		{
			description: "unknown book",
			state:       updatebook.State{},
			command:     updatebook.BuildCommand(uuid.New(), "Cities of Salt", "Novels", now),
			expected:    core.ErrBookNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			_, result := updatebook.Decide(tc.state, tc.command)

			// assert
			assert.False(t, result.HasEventToRecord())
			require.Error(t, result.HasError())

			if tc.expected != nil {
				assert.ErrorIs(t, result.HasError(), tc.expected)
				return
			}

			assert.Equal(t, core.KindValidation, core.KindOf(result.HasError()))
			assert.Equal(t, tc.field, core.AsError(result.HasError()).Field)
		})
	}
}
