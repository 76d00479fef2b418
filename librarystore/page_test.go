package librarystore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

func Test_BuildPage_SanitizesInput(t *testing.T) {
	tests := []struct {
		name           string
		number, size   int
		expectedNumber int
		expectedSize   int
	}{
		{name: "valid_input_is_kept", number: 2, size: 10, expectedNumber: 2, expectedSize: 10},
		{name: "zero_number_becomes_first_page", number: 0, size: 10, expectedNumber: 1, expectedSize: 10},
		{name: "negative_number_becomes_first_page", number: -4, size: 10, expectedNumber: 1, expectedSize: 10},
		{name: "zero_size_becomes_default", number: 1, size: 0, expectedNumber: 1, expectedSize: 20},
		{name: "oversized_is_capped", number: 1, size: 1000, expectedNumber: 1, expectedSize: librarystore.MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := librarystore.BuildPage(tt.number, tt.size)

			assert.Equal(t, tt.expectedNumber, page.Number())
			assert.Equal(t, tt.expectedSize, page.Size())
		})
	}
}

func Test_Page_Navigation(t *testing.T) {
	// arrange
	page := librarystore.BuildPage(2, 10)

	// act & assert
	assert.Equal(t, 10, page.Offset())
	assert.Equal(t, 3, page.TotalPages(25))
	assert.True(t, page.HasNext(25))
	assert.True(t, page.HasPrev())
	assert.False(t, page.HasNext(20))
	assert.Equal(t, 0, page.TotalPages(0))
	assert.False(t, librarystore.BuildPage(1, 10).HasPrev())
}

func Test_GetConsistencyLevel_DefaultsToStrong(t *testing.T) {
	ctx := t.Context()

	assert.Equal(t, librarystore.StrongConsistency, librarystore.GetConsistencyLevel(ctx))
	assert.Equal(t, librarystore.EventualConsistency, librarystore.GetConsistencyLevel(librarystore.WithEventualConsistency(ctx)))
	assert.Equal(t, "strong", librarystore.GetConsistencyLevel(librarystore.WithStrongConsistency(ctx)).String())
}
