package loginuser

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const (
	commandType = "LoginUser"
)

// Command carries the credentials of a login attempt.
type Command struct {
	Email    string
	Password string
	IssuedAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. The email is normalized like at registration.
func BuildCommand(email, password string, issuedAt time.Time) Command {
	return Command{
		Email:    registeruser.NormalizeEmail(email),
		Password: password,
		IssuedAt: issuedAt,
	}
}

// Result is the logged-in user together with a signed bearer token.
type Result struct {
	User      librarystore.User
	Token     string
	ExpiresAt time.Time
}
