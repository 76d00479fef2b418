package registeruser

import (
	"net/mail"
	"strings"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/auth"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Decide validates the registration and produces the UserRegistered event.
// Uniqueness of email and university id is left to the store.
//
// Business Rules:
//
//	WHEN: RegisterUser command is received
//	THEN: UserRegistered event is generated
//	ERROR: validation error naming the field if name, email, password or universityId is missing,
//	       the email does not look like an address or the password is shorter than 6 characters
func Decide(command Command) core.DecisionResult {
	if err := validate(command); err != nil {
		return core.RejectedDecision(err)
	}

	return core.SuccessDecision(
		core.BuildUserRegistered(command.UserID, command.Name, command.Email, command.Role, command.OccurredAt),
	)
}

func validate(command Command) error {
	switch {
	case command.Name == "":
		return core.ValidationError("name", "name is required")
	case command.Email == "":
		return core.ValidationError("email", "email is required")
	case !looksLikeAddress(command.Email):
		return core.ValidationError("email", "email is not a valid address")
	case command.Password == "":
		return core.ValidationError("password", "password is required")
	case len([]rune(command.Password)) < auth.MinPasswordLength:
		return core.ValidationError("password", "password must have at least 6 characters")
	case command.UniversityID == "":
		return core.ValidationError("universityId", "universityId is required")
	}

	return nil
}

// looksLikeAddress accepts a bare addr-spec with a dotted domain, no display name.
func looksLikeAddress(email string) bool {
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email || parsed.Name != "" {
		return false
	}

	at := strings.LastIndexByte(email, '@')

	return at > 0 && strings.IndexByte(email[at+1:], '.') > 0
}

// NewUser builds the record to insert.
func NewUser(command Command, passwordHash string) librarystore.User {
	return librarystore.User{
		ID:           command.UserID,
		Name:         command.Name,
		Email:        command.Email,
		PasswordHash: passwordHash,
		UniversityID: command.UniversityID,
		Role:         command.Role,
		CreatedAt:    command.OccurredAt,
	}
}
