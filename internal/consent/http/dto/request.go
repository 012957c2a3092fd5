// Package dto provides data transfer objects for the consent API.
package dto

import (
	"encoding/json"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/carebridgehq/chartgate/internal/validation"
)

// CreateConsentRequest contains the parameters for recording a new consent.
// Scope is kept as raw JSON and decoded by the domain: the decoder, not the
// transport, decides what a well-formed scope is.
type CreateConsentRequest struct {
	PatientID string          `json:"patient_id"`
	Recipient string          `json:"recipient"`
	Scope     json.RawMessage `json:"scope"`
	ValidFrom time.Time       `json:"valid_from"`
	// ValidUntil is optional: omitted or null means the consent is
	// open-ended and only ends on revocation.
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	// Document is the base64-encoded signed consent artifact; optional.
	Document []byte `json:"document,omitempty"`
}

// Validate checks if the create consent request is valid.
func (r *CreateConsentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PatientID,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Recipient,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Scope, validation.Required),
		validation.Field(&r.ValidFrom, validation.Required),
	)
}
