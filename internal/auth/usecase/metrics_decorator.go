package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	"github.com/carebridgehq/chartgate/internal/metrics"
)

// actorUseCaseWithMetrics decorates ActorUseCase with metrics instrumentation.
type actorUseCaseWithMetrics struct {
	next    ActorUseCase
	metrics metrics.BusinessMetrics
}

// NewActorUseCaseWithMetrics wraps an ActorUseCase with metrics recording.
func NewActorUseCaseWithMetrics(useCase ActorUseCase, m metrics.BusinessMetrics) ActorUseCase {
	return &actorUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for actor creation operations.
func (a *actorUseCaseWithMetrics) Create(
	ctx context.Context,
	createActorInput *authDomain.CreateActorInput,
) (*authDomain.CreateActorOutput, error) {
	start := time.Now()
	output, err := a.next.Create(ctx, createActorInput)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "actor_create", status)
	a.metrics.RecordDuration(ctx, "auth", "actor_create", time.Since(start), status)

	return output, err
}

// Get records metrics for actor retrieval operations.
func (a *actorUseCaseWithMetrics) Get(ctx context.Context, actorID uuid.UUID) (*authDomain.Actor, error) {
	start := time.Now()
	actor, err := a.next.Get(ctx, actorID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "actor_get", status)
	a.metrics.RecordDuration(ctx, "auth", "actor_get", time.Since(start), status)

	return actor, err
}

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for token issuance operations.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	issueTokenInput *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, issueTokenInput)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "auth", "token_issue", status)
	t.metrics.RecordDuration(ctx, "auth", "token_issue", time.Since(start), status)

	return output, err
}

// Authenticate records metrics for token authentication operations.
func (t *tokenUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	tokenHash string,
) (*authDomain.Actor, error) {
	start := time.Now()
	actor, err := t.next.Authenticate(ctx, tokenHash)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "auth", "token_authenticate", status)
	t.metrics.RecordDuration(ctx, "auth", "token_authenticate", time.Since(start), status)

	return actor, err
}
