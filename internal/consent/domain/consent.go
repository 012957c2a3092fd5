// Package domain defines consent records and the scope coverage rules that
// gate disclosure of specially protected records.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/carebridgehq/chartgate/internal/errors"
)

// Consent is a subject's authorization to disclose specific protected
// records. Consents are never physically deleted; revocation sets RevokedAt.
// A nil ValidUntil means the consent is open-ended.
type Consent struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	Recipient    string
	Scope        Scope
	ValidFrom    time.Time
	ValidUntil   *time.Time
	ArtifactHash string
	CreatedAt    time.Time
	RevokedAt    *time.Time
}

// ActiveAt reports whether the consent is in force at the given instant. The
// upper bound is exclusive: a consent with ValidUntil = T is active at T-1s
// and inactive at exactly T; a nil ValidUntil never expires. Revocation takes
// effect at RevokedAt.
func (c *Consent) ActiveAt(now time.Time) bool {
	if now.Before(c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && !now.Before(*c.ValidUntil) {
		return false
	}
	if c.RevokedAt != nil && !now.Before(*c.RevokedAt) {
		return false
	}
	return true
}

// Covers reports whether the consent authorizes the whole request at the
// given instant. An inactive consent covers nothing, regardless of scope.
func (c *Consent) Covers(req *CoverageRequest, now time.Time) bool {
	if c == nil || !c.ActiveAt(now) {
		return false
	}
	return c.Scope.Covers(req)
}

// Domain-specific errors for consent operations.
var (
	// ErrConsentNotFound indicates the requested consent does not exist.
	ErrConsentNotFound = errors.Wrap(errors.ErrNotFound, "consent not found")

	// ErrConsentAlreadyRevoked indicates the consent was revoked earlier.
	ErrConsentAlreadyRevoked = errors.Wrap(errors.ErrConflict, "consent already revoked")

	// ErrInvalidWindow indicates valid_until is not after valid_from.
	ErrInvalidWindow = errors.Wrap(errors.ErrInvalidInput, "consent window is empty")

	// ErrInvalidScope indicates a new consent carries a scope that could never
	// cover anything. Existing malformed scopes are tolerated on read and
	// simply never cover; only creation rejects them.
	ErrInvalidScope = errors.Wrap(errors.ErrInvalidInput, "consent scope is invalid")
)
