package shell

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

// Actor is the authenticated caller of a request, taken from a verified bearer token.
type Actor struct {
	UserID uuid.UUID
	Role   librarystore.Role
	Name   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == librarystore.RoleAdmin
}

// MayActFor reports whether the actor may act on a record owned by ownerID.
func (a Actor) MayActFor(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.UserID == ownerID
}

type actorContextKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFrom returns the actor stored in the context, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)

	return actor, ok
}
