package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
	"github.com/carebridgehq/chartgate/internal/metrics"
)

// consentUseCaseWithMetrics decorates ConsentUseCase with metrics instrumentation.
type consentUseCaseWithMetrics struct {
	next    ConsentUseCase
	metrics metrics.BusinessMetrics
}

// NewConsentUseCaseWithMetrics wraps a ConsentUseCase with metrics recording.
func NewConsentUseCaseWithMetrics(useCase ConsentUseCase, m metrics.BusinessMetrics) ConsentUseCase {
	return &consentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *consentUseCaseWithMetrics) Create(
	ctx context.Context,
	input *CreateConsentInput,
) (*consentDomain.Consent, error) {
	start := time.Now()
	consent, err := c.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "create", status)
	c.metrics.RecordDuration(ctx, "consent", "create", time.Since(start), status)

	return consent, err
}

func (c *consentUseCaseWithMetrics) Revoke(ctx context.Context, id, actorID uuid.UUID, origin string) error {
	start := time.Now()
	err := c.next.Revoke(ctx, id, actorID, origin)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "revoke", status)
	c.metrics.RecordDuration(ctx, "consent", "revoke", time.Since(start), status)

	return err
}

func (c *consentUseCaseWithMetrics) Get(
	ctx context.Context,
	id uuid.UUID,
) (*consentDomain.Consent, error) {
	start := time.Now()
	consent, err := c.next.Get(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "get", status)
	c.metrics.RecordDuration(ctx, "consent", "get", time.Since(start), status)

	return consent, err
}

func (c *consentUseCaseWithMetrics) ListByPatient(
	ctx context.Context,
	patientID uuid.UUID,
	offset, limit int,
) ([]*consentDomain.Consent, error) {
	start := time.Now()
	consents, err := c.next.ListByPatient(ctx, patientID, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "list", status)
	c.metrics.RecordDuration(ctx, "consent", "list", time.Since(start), status)

	return consents, err
}
