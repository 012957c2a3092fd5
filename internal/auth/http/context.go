// Package http provides HTTP middleware and handlers for authentication.
package http

import (
	"context"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
)

// actorKey is a context key type for storing authenticated actors.
type actorKey struct{}

// WithActor stores an authenticated actor in the context.
// This is typically called by the authentication middleware after successful token validation.
func WithActor(ctx context.Context, actor *authDomain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor retrieves an authenticated actor from the context.
// Returns (actor, true) if an actor is present, or (nil, false) if no actor was set.
func GetActor(ctx context.Context) (*authDomain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(*authDomain.Actor)
	return actor, ok
}
