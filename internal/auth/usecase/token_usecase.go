package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	authService "github.com/carebridgehq/chartgate/internal/auth/service"
	"github.com/carebridgehq/chartgate/internal/config"
)

// tokenUseCase implements TokenUseCase for issuing and validating bearer tokens.
type tokenUseCase struct {
	config        *config.Config
	actorRepo     ActorRepository
	tokenRepo     TokenRepository
	secretService authService.SecretService
	tokenService  authService.TokenService
}

// Issue authenticates an actor and generates a new bearer token.
//
// Security notes:
//   - Returns ErrInvalidCredentials for both non-existent actors and wrong
//     secrets to prevent enumeration
//   - Returns ErrActorInactive if the actor exists but is deactivated
//   - The plain token is only returned once
//   - Token expiration is set from Config.AuthTokenExpiration
func (t *tokenUseCase) Issue(
	ctx context.Context,
	issueTokenInput *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	// Get the actor by ID
	actor, err := t.actorRepo.Get(ctx, issueTokenInput.ActorID)
	if err != nil {
		// If actor not found, return generic error to prevent enumeration
		if errors.Is(err, authDomain.ErrActorNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	// Check if actor is active
	if !actor.IsActive {
		return nil, authDomain.ErrActorInactive
	}

	// Verify the actor secret
	if !t.secretService.CompareSecret(issueTokenInput.ActorSecret, actor.Secret) {
		return nil, authDomain.ErrInvalidCredentials
	}

	// Generate a new token
	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		ActorID:   actor.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().UTC().Add(t.config.AuthTokenExpiration),
		CreatedAt: time.Now().UTC(),
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

// Authenticate validates a token hash and returns the associated actor.
//
// Security notes:
//   - Returns ErrInvalidCredentials for token not found or expired, and for a
//     missing actor (shouldn't happen due to foreign key constraints, but
//     handled for safety)
//   - Returns ErrActorInactive if the actor exists but is deactivated
//   - All time comparisons use UTC
func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Actor, error) {
	// Get the token by hash
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		// If token not found, return generic error to prevent enumeration
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	// Check if token is expired
	if token.ExpiresAt.Before(time.Now().UTC()) {
		return nil, authDomain.ErrInvalidCredentials
	}

	// Get the associated actor
	actor, err := t.actorRepo.Get(ctx, token.ActorID)
	if err != nil {
		if errors.Is(err, authDomain.ErrActorNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	// Check if actor is active
	if !actor.IsActive {
		return nil, authDomain.ErrActorInactive
	}

	return actor, nil
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	config *config.Config,
	actorRepo ActorRepository,
	tokenRepo TokenRepository,
	secretService authService.SecretService,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:        config,
		actorRepo:     actorRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
		tokenService:  tokenService,
	}
}
