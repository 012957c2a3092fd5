package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
	"github.com/carebridgehq/chartgate/internal/metrics"
)

// auditUseCaseWithMetrics decorates AuditUseCase with metrics instrumentation.
type auditUseCaseWithMetrics struct {
	next    AuditUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditUseCaseWithMetrics wraps an AuditUseCase with metrics recording.
func NewAuditUseCaseWithMetrics(useCase AuditUseCase, m metrics.BusinessMetrics) AuditUseCase {
	return &auditUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Append records metrics for chain append operations.
func (a *auditUseCaseWithMetrics) Append(
	ctx context.Context,
	input *AppendInput,
) (*auditDomain.AuditEntry, error) {
	start := time.Now()
	entry, err := a.next.Append(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "chain_append", status)
	a.metrics.RecordDuration(ctx, "audit", "chain_append", time.Since(start), status)

	return entry, err
}

// Verify records metrics for chain verification operations. A broken chain
// counts as success for the walk itself and is reported separately.
func (a *auditUseCaseWithMetrics) Verify(ctx context.Context) (*auditDomain.VerificationReport, error) {
	start := time.Now()
	report, err := a.next.Verify(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "chain_verify", status)
	a.metrics.RecordDuration(ctx, "audit", "chain_verify", time.Since(start), status)

	return report, err
}

// VerifyAndRecord records metrics for recorded verification operations.
func (a *auditUseCaseWithMetrics) VerifyAndRecord(
	ctx context.Context,
	actorID uuid.UUID,
) (*auditDomain.VerificationReport, error) {
	start := time.Now()
	report, err := a.next.VerifyAndRecord(ctx, actorID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "chain_verify_record", status)
	a.metrics.RecordDuration(ctx, "audit", "chain_verify_record", time.Since(start), status)

	return report, err
}

// List records metrics for audit entry list operations.
func (a *auditUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.AuditEntry, int64, error) {
	start := time.Now()
	entries, count, err := a.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "entry_list", status)
	a.metrics.RecordDuration(ctx, "audit", "entry_list", time.Since(start), status)

	return entries, count, err
}
