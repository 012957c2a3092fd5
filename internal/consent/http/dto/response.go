package dto

import (
	"time"

	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
)

// ConsentResponse represents a consent in API responses. The scope is echoed
// in its stored wire shape.
type ConsentResponse struct {
	ID           string     `json:"id"`
	PatientID    string     `json:"patient_id"`
	Recipient    string     `json:"recipient"`
	ScopeKind    string     `json:"scope_kind"`
	ValidFrom    time.Time  `json:"valid_from"`
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
	ArtifactHash string     `json:"artifact_hash,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

// MapConsentToResponse converts a domain consent to an API response.
func MapConsentToResponse(consent *consentDomain.Consent) ConsentResponse {
	return ConsentResponse{
		ID:           consent.ID.String(),
		PatientID:    consent.PatientID.String(),
		Recipient:    consent.Recipient,
		ScopeKind:    string(consent.Scope.Kind),
		ValidFrom:    consent.ValidFrom,
		ValidUntil:   consent.ValidUntil,
		ArtifactHash: consent.ArtifactHash,
		CreatedAt:    consent.CreatedAt,
		RevokedAt:    consent.RevokedAt,
	}
}

// ListConsentsResponse represents a list of consents in API responses.
type ListConsentsResponse struct {
	Data []ConsentResponse `json:"data"`
}

// MapConsentsToListResponse converts domain consents to a list API response.
func MapConsentsToListResponse(consents []*consentDomain.Consent) ListConsentsResponse {
	consentResponses := make([]ConsentResponse, 0, len(consents))
	for _, consent := range consents {
		consentResponses = append(consentResponses, MapConsentToResponse(consent))
	}
	return ListConsentsResponse{
		Data: consentResponses,
	}
}
