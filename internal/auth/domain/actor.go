// Package domain defines the identities that call the disclosure API: actors
// (clinicians or service integrations) and their bearer tokens.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/carebridgehq/chartgate/internal/errors"
)

// Actor is an authenticated caller. Actors own clinical records and appear as
// the actor_id on every audit entry they cause.
type Actor struct {
	ID        uuid.UUID
	Name      string
	Secret    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateActorInput carries the fields needed to register a new actor.
type CreateActorInput struct {
	Name string
}

// CreateActorOutput returns the new actor's ID and its plain secret. The plain
// secret is shown exactly once; only the Argon2id hash is stored.
type CreateActorOutput struct {
	ActorID     uuid.UUID
	PlainSecret string
}

// Domain-specific errors for authentication operations.
var (
	// ErrActorNotFound indicates the requested actor does not exist.
	ErrActorNotFound = errors.Wrap(errors.ErrNotFound, "actor not found")

	// ErrActorAlreadyExists indicates an actor with the same name already exists.
	ErrActorAlreadyExists = errors.Wrap(errors.ErrConflict, "actor already exists")

	// ErrActorInactive indicates the actor has been deactivated.
	ErrActorInactive = errors.Wrap(errors.ErrForbidden, "actor is inactive")

	// ErrInvalidCredentials covers unknown actors, wrong secrets and invalid
	// or expired tokens alike, so callers cannot enumerate identities.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrTokenNotFound indicates the token hash has no matching token.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")
)
