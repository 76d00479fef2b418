package loginuser

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/auth"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// UserFinder looks users up by their normalized email.
type UserFinder interface {
	UserByEmail(ctx context.Context, email string) (librarystore.User, error)
}

// CommandHandler verifies credentials and issues a token.
type CommandHandler struct {
	users     UserFinder
	hasher    auth.PasswordHasher
	tokens    auth.Tokens
	decoyHash string
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(users UserFinder, hasher auth.PasswordHasher, tokens auth.Tokens) CommandHandler {
	decoyHash, _ := hasher.Hash("decoy-password") //nolint:errcheck // an empty decoy only skips the equal timing

	return CommandHandler{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		decoyHash: decoyHash,
	}
}

// Handle returns core.ErrInvalidCredentials for an unknown email as well as for a wrong password.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	if command.Email == "" || command.Password == "" {
		return Result{}, core.ErrInvalidCredentials
	}

	user, err := h.users.UserByEmail(ctx, command.Email)
	if errors.Is(err, librarystore.ErrRecordNotFound) {
		h.hasher.Matches(h.decoyHash, command.Password)

		return Result{}, core.ErrInvalidCredentials
	}

	if err != nil {
		return Result{}, err
	}

	if !h.hasher.Matches(user.PasswordHash, command.Password) {
		return Result{}, core.ErrInvalidCredentials
	}

	token, expiresAt, err := h.tokens.Issue(user, command.IssuedAt)
	if err != nil {
		return Result{}, err
	}

	return Result{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
