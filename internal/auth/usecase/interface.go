// Package usecase defines business logic interfaces for authentication operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
)

// ActorRepository defines persistence operations for actors.
// Implementations must support transaction-aware operations via context propagation.
type ActorRepository interface {
	// Create stores a new actor. Returns ErrActorAlreadyExists on a name collision.
	Create(ctx context.Context, actor *authDomain.Actor) error

	// Get retrieves an actor by ID. Returns ErrActorNotFound if not found.
	Get(ctx context.Context, actorID uuid.UUID) (*authDomain.Actor, error)
}

// TokenRepository defines persistence operations for authentication tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token.
	Create(ctx context.Context, token *authDomain.Token) error

	// GetByTokenHash retrieves a token by its SHA-256 hash.
	// Returns ErrTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)
}

// ActorUseCase defines business logic operations for managing actors.
type ActorUseCase interface {
	// Create registers a new actor with a cryptographically secure secret.
	//
	// Returns the actor ID and the plain text secret. The plain secret is only
	// returned once and should be securely transmitted to the actor; the hashed
	// version is stored for future authentication.
	Create(
		ctx context.Context,
		createActorInput *authDomain.CreateActorInput,
	) (*authDomain.CreateActorOutput, error)

	// Get retrieves an actor by ID. The returned Actor carries the hashed
	// secret, never the plain text version.
	Get(ctx context.Context, actorID uuid.UUID) (*authDomain.Actor, error)
}

// TokenUseCase issues and validates bearer tokens.
type TokenUseCase interface {
	// Issue authenticates an actor by ID and secret and returns a new token.
	// Returns ErrInvalidCredentials for both unknown actors and wrong secrets.
	Issue(
		ctx context.Context,
		issueTokenInput *authDomain.IssueTokenInput,
	) (*authDomain.IssueTokenOutput, error)

	// Authenticate resolves a token hash to its active actor.
	// Returns ErrInvalidCredentials for unknown or expired tokens.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Actor, error)
}
