// Package dto provides data transfer objects for the disclosure endpoint.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/carebridgehq/chartgate/internal/validation"
)

// DiscloseRequest contains the parameters of a disclosure request. The actor
// and origin come from the authenticated connection, the purpose from its own
// header; none of them are accepted in the body. Malformed UUID strings fail
// JSON binding and produce a 400 before validation runs.
type DiscloseRequest struct {
	ConsentID       *uuid.UUID  `json:"consentId,omitempty"`
	ConversationIDs []uuid.UUID `json:"conversationIds,omitempty"`
	NoteIDs         []uuid.UUID `json:"noteIds,omitempty"`
	FileIDs         []uuid.UUID `json:"fileIds,omitempty"`
}

// Validate checks if the disclosure request is valid. An empty request (no
// ids in any list) is malformed and rejected here, before the gate runs, so
// it never consumes rate budget or produces an audit entry.
func (r *DiscloseRequest) Validate() error {
	if len(r.ConversationIDs) == 0 && len(r.NoteIDs) == 0 && len(r.FileIDs) == 0 {
		return validation.NewError(
			"validation_empty_request",
			"at least one of conversationIds, noteIds or fileIds must be provided",
		)
	}

	return validation.ValidateStruct(r,
		validation.Field(&r.ConversationIDs, customValidation.UUIDEach),
		validation.Field(&r.NoteIDs, customValidation.UUIDEach),
		validation.Field(&r.FileIDs, customValidation.UUIDEach),
	)
}
