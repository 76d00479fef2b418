package registeruser

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const (
	commandType      = "RegisterUser"
	adminCommandType = "CreateAdmin"
)

// Command represents a new account. Password is the plain text and never leaves the handler.
type Command struct {
	UserID       uuid.UUID
	Name         string
	Email        string
	Password     string
	UniversityID string
	Role         librarystore.Role
	OccurredAt   core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	if c.Role == librarystore.RoleAdmin {
		return adminCommandType
	}

	return commandType
}

// BuildCommand creates a self-registration. The role is always "user".
func BuildCommand(userID uuid.UUID, name, email, password, universityID string, occurredAt time.Time) Command {
	return Command{
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		Password:     password,
		UniversityID: strings.TrimSpace(universityID),
		Role:         librarystore.RoleUser,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}

// BuildAdminCommand creates an admin account.
func BuildAdminCommand(userID uuid.UUID, name, email, password, universityID string, occurredAt time.Time) Command {
	command := BuildCommand(userID, name, email, password, universityID, occurredAt)
	command.Role = librarystore.RoleAdmin

	return command
}

// NormalizeEmail trims and lower-cases an address. Login uses the same rule.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
