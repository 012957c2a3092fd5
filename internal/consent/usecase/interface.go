// Package usecase implements the consent lifecycle: recording signed
// consents, revoking them (logical delete only) and reading them back. Every
// lifecycle change lands on the audit chain.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
)

// ConsentRepository defines the interface for consent persistence operations.
type ConsentRepository interface {
	Create(ctx context.Context, consent *consentDomain.Consent) error
	Get(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error)
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) ([]*consentDomain.Consent, error)
}

// CreateConsentInput carries everything needed to record a new consent.
type CreateConsentInput struct {
	PatientID uuid.UUID
	Recipient string
	Scope     consentDomain.Scope
	ValidFrom time.Time
	// ValidUntil is the exclusive upper bound; nil means open-ended.
	ValidUntil *time.Time
	// Document is the signed consent artifact; optional.
	Document []byte
	// ActorID and Origin attribute the change on the audit chain.
	ActorID uuid.UUID
	Origin  string
}

// ConsentUseCase defines the interface for consent lifecycle business logic.
type ConsentUseCase interface {
	// Create records a consent and its artifact, then appends a
	// consent_created entry to the audit chain. If the audit append fails the
	// whole operation fails.
	Create(ctx context.Context, input *CreateConsentInput) (*consentDomain.Consent, error)

	// Revoke sets revoked_at and appends a consent_revoked entry. Revocation
	// is idempotent-hostile on purpose: revoking twice is a conflict, so a
	// replayed revocation cannot mask an earlier one.
	Revoke(ctx context.Context, id, actorID uuid.UUID, origin string) error

	Get(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) ([]*consentDomain.Consent, error)
}
