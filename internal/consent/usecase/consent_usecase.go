package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
	auditUsecase "github.com/carebridgehq/chartgate/internal/audit/usecase"
	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
	consentService "github.com/carebridgehq/chartgate/internal/consent/service"
)

// consentUseCase implements the ConsentUseCase interface.
type consentUseCase struct {
	consentRepo   ConsentRepository
	artifactStore consentService.ArtifactStore
	auditUseCase  auditUsecase.AuditUseCase
	now           func() time.Time
}

// NewConsentUseCase creates a new ConsentUseCase.
func NewConsentUseCase(
	consentRepo ConsentRepository,
	artifactStore consentService.ArtifactStore,
	auditUseCase auditUsecase.AuditUseCase,
) ConsentUseCase {
	return &consentUseCase{
		consentRepo:   consentRepo,
		artifactStore: artifactStore,
		auditUseCase:  auditUseCase,
		now:           time.Now,
	}
}

// Create records a consent. The artifact goes to content-addressed storage
// first, the row second, the audit entry last; an audit failure fails the
// call so no consent exists without a chain record of its creation.
func (u *consentUseCase) Create(
	ctx context.Context,
	input *CreateConsentInput,
) (*consentDomain.Consent, error) {
	// A nil ValidUntil is an open-ended consent; the window check only
	// applies when an upper bound is given.
	if input.ValidUntil != nil && !input.ValidUntil.After(input.ValidFrom) {
		return nil, consentDomain.ErrInvalidWindow
	}
	if input.Scope.Kind == consentDomain.ScopeInvalid {
		return nil, consentDomain.ErrInvalidScope
	}

	consent := &consentDomain.Consent{
		ID:        uuid.Must(uuid.NewV7()),
		PatientID: input.PatientID,
		Recipient: input.Recipient,
		Scope:     input.Scope,
		ValidFrom: input.ValidFrom.UTC(),
		CreatedAt: u.now().UTC(),
	}
	if input.ValidUntil != nil {
		validUntil := input.ValidUntil.UTC()
		consent.ValidUntil = &validUntil
	}

	if len(input.Document) > 0 {
		hash, err := u.artifactStore.Put(ctx, input.Document)
		if err != nil {
			return nil, err
		}
		consent.ArtifactHash = hash
	}

	if err := u.consentRepo.Create(ctx, consent); err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"patient_id": consent.PatientID.String(),
		"scope_kind": string(consent.Scope.Kind),
		"valid_from": consent.ValidFrom.Format(time.RFC3339),
	}
	if consent.ValidUntil != nil {
		metadata["valid_until"] = consent.ValidUntil.Format(time.RFC3339)
	}

	if _, err := u.auditUseCase.Append(ctx, &auditUsecase.AppendInput{
		ActorID:   input.ActorID,
		Action:    auditDomain.ActionConsentCreated,
		ConsentID: &consent.ID,
		Origin:    input.Origin,
		Metadata:  metadata,
	}); err != nil {
		return nil, err
	}

	return consent, nil
}

// Revoke sets revoked_at and records the revocation on the chain.
func (u *consentUseCase) Revoke(ctx context.Context, id, actorID uuid.UUID, origin string) error {
	revokedAt := u.now().UTC()

	if err := u.consentRepo.Revoke(ctx, id, revokedAt); err != nil {
		return err
	}

	_, err := u.auditUseCase.Append(ctx, &auditUsecase.AppendInput{
		ActorID:   actorID,
		Action:    auditDomain.ActionConsentRevoked,
		ConsentID: &id,
		Origin:    origin,
		Metadata: map[string]any{
			"revoked_at": revokedAt.Format(time.RFC3339),
		},
	})
	return err
}

// Get retrieves a consent by id.
func (u *consentUseCase) Get(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error) {
	return u.consentRepo.Get(ctx, id)
}

// ListByPatient returns a patient's consents, newest first.
func (u *consentUseCase) ListByPatient(
	ctx context.Context,
	patientID uuid.UUID,
	offset, limit int,
) ([]*consentDomain.Consent, error) {
	return u.consentRepo.ListByPatient(ctx, patientID, offset, limit)
}
