package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	authService "github.com/carebridgehq/chartgate/internal/auth/service"
)

// actorUseCase implements ActorUseCase for managing actors.
type actorUseCase struct {
	actorRepo     ActorRepository
	secretService authService.SecretService
}

// Create registers a new actor with a generated secret.
//
// The plain secret is only returned once; only its Argon2id hash is stored.
func (a *actorUseCase) Create(
	ctx context.Context,
	createActorInput *authDomain.CreateActorInput,
) (*authDomain.CreateActorOutput, error) {
	// Generate a secure secret for the actor
	plainSecret, hashedSecret, err := a.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	actor := &authDomain.Actor{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      createActorInput.Name,
		Secret:    hashedSecret,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := a.actorRepo.Create(ctx, actor); err != nil {
		return nil, err
	}

	return &authDomain.CreateActorOutput{
		ActorID:     actor.ID,
		PlainSecret: plainSecret,
	}, nil
}

// Get retrieves an actor by ID.
func (a *actorUseCase) Get(ctx context.Context, actorID uuid.UUID) (*authDomain.Actor, error) {
	return a.actorRepo.Get(ctx, actorID)
}

// NewActorUseCase creates a new ActorUseCase with the provided dependencies.
func NewActorUseCase(actorRepo ActorRepository, secretService authService.SecretService) ActorUseCase {
	return &actorUseCase{
		actorRepo:     actorRepo,
		secretService: secretService,
	}
}
