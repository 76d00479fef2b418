package registeruser_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

var now = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

func Test_BuildCommand_NormalizesEmail_AndForcesUserRole(t *testing.T) {
	command := registeruser.BuildCommand(uuid.New(), " Layla ", "  Layla@Example.ORG ", "secret1", " U-1 ", now)

	assert.Equal(t, "Layla", command.Name)
	assert.Equal(t, "layla@example.org", command.Email)
	assert.Equal(t, "U-1", command.UniversityID)
	assert.Equal(t, librarystore.RoleUser, command.Role)
	assert.Equal(t, "RegisterUser", command.CommandType())
}

func Test_Decide_Success(t *testing.T) {
	// act
	result := registeruser.Decide(registeruser.BuildCommand(uuid.New(), "Layla", "layla@example.org", "secret1", "U-1", now))

	// assert
	require.True(t, result.IsSuccess())

	event, ok := result.Event.(core.UserRegistered)
	require.True(t, ok, "expected UserRegistered event")
	assert.Equal(t, "layla@example.org", event.Email)
	assert.Equal(t, librarystore.RoleUser, event.Role)
}

func Test_Decide_Rejections(t *testing.T) {
	testCases := []struct {
		description                     string
		name, email, password, universe string
		field                           string
	}{
		{"missing name", "", "a@b.org", "secret1", "U-1", "name"},
		{"missing email", "Layla", " ", "secret1", "U-1", "email"},
		{"email without at", "Layla", "layla.example.org", "secret1", "U-1", "email"},
		{"email without dotted domain", "Layla", "layla@localhost", "secret1", "U-1", "email"},
		{"email with display name", "Layla", "Layla <layla@example.org>", "secret1", "U-1", "email"},
		{"missing password", "Layla", "a@b.org", "", "U-1", "password"},
		{"short password", "Layla", "a@b.org", "12345", "U-1", "password"},
		{"missing university id", "Layla", "a@b.org", "secret1", "", "universityId"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			result := registeruser.Decide(registeruser.BuildCommand(uuid.New(), tc.name, tc.email, tc.password, tc.universe, now))

			// assert
			assert.False(t, result.HasEventToRecord())
			assert.Equal(t, core.KindValidation, core.KindOf(result.HasError()))
			assert.Equal(t, tc.field, core.AsError(result.HasError()).Field)
		})
	}
}
