// Package usecase implements the disclosure gate: the single pipeline through
// which clinical records leave the system. Decide, log, then respond — the
// audit entry for a decision is written before the response is produced, and
// a failed audit write fails the whole request.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
	disclosureDomain "github.com/carebridgehq/chartgate/internal/disclosure/domain"
	resourceDomain "github.com/carebridgehq/chartgate/internal/resource/domain"
)

// ResourceReader loads caller-visible resource references. Rows the actor may
// not see are absent from the result, indistinguishable from rows that do not
// exist.
type ResourceReader interface {
	GetVisible(
		ctx context.Context,
		actorID uuid.UUID,
		kind resourceDomain.Kind,
		ids []uuid.UUID,
	) ([]*resourceDomain.ResourceRef, error)
}

// ConsentReader resolves the consent a caller presents.
type ConsentReader interface {
	Get(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error)
}

// RateLimiter gates how often a subject may attempt disclosures.
type RateLimiter interface {
	Allow(ctx context.Context, subject, endpoint string, max int64, window time.Duration) bool
}

// DisclosureUseCase defines the interface for the disclosure gate.
type DisclosureUseCase interface {
	// Disclose runs the full gate for one request. On success it returns the
	// manifest and guarantees a disclosure_export entry is on the chain; on
	// denial it guarantees a disclosure_denied entry is on the chain before
	// the error is returned. Rate-limited and malformed requests produce no
	// audit entries.
	Disclose(ctx context.Context, req *disclosureDomain.Request) (*disclosureDomain.Manifest, error)
}
