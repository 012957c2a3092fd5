package usecase

import (
	"context"
	"time"

	disclosureDomain "github.com/carebridgehq/chartgate/internal/disclosure/domain"
	"github.com/carebridgehq/chartgate/internal/metrics"
)

// disclosureUseCaseWithMetrics decorates DisclosureUseCase with metrics instrumentation.
type disclosureUseCaseWithMetrics struct {
	next    DisclosureUseCase
	metrics metrics.BusinessMetrics
}

// NewDisclosureUseCaseWithMetrics wraps a DisclosureUseCase with metrics recording.
func NewDisclosureUseCaseWithMetrics(useCase DisclosureUseCase, m metrics.BusinessMetrics) DisclosureUseCase {
	return &disclosureUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Disclose records metrics for disclosure gate operations.
func (d *disclosureUseCaseWithMetrics) Disclose(
	ctx context.Context,
	req *disclosureDomain.Request,
) (*disclosureDomain.Manifest, error) {
	start := time.Now()
	manifest, err := d.next.Disclose(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "disclosure", "disclose", status)
	d.metrics.RecordDuration(ctx, "disclosure", "disclose", time.Since(start), status)

	return manifest, err
}
