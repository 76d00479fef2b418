package httpapi

import (
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

const (
	bearerPrefix = "bearer "
	localsActor  = "actor"
)

// TokenVerifier turns a bearer token into the actor it was issued to.
type TokenVerifier interface {
	Verify(token string) (shell.Actor, error)
}

// authenticate puts the actor of a valid bearer token into the user context. Requests without a token
// pass through anonymously, requests with an invalid one are answered with 401.
// Websocket upgrades may pass the token as ?token= because browsers cannot set headers on them.
func (a *api) authenticate(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Next()
	}

	actor, err := a.tokens.Verify(token)
	if err != nil {
		return err
	}

	c.SetUserContext(shell.WithActor(c.UserContext(), actor))

	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}

	if websocket.IsWebSocketUpgrade(c) {
		return c.Query("token")
	}

	return ""
}

// actorHandler is a handler that runs for an authenticated actor.
type actorHandler func(c *fiber.Ctx, actor shell.Actor) error

func (a *api) requireUser(next actorHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := shell.ActorFrom(c.UserContext())
		if !ok {
			return core.ErrAuthenticationRequired
		}

		return next(c, actor)
	}
}

func (a *api) requireAdmin(next actorHandler) fiber.Handler {
	return a.requireUser(func(c *fiber.Ctx, actor shell.Actor) error {
		if !actor.IsAdmin() {
			return core.ErrAdminRequired
		}

		return next(c, actor)
	})
}
