package dto

import (
	"github.com/google/uuid"

	disclosureDomain "github.com/carebridgehq/chartgate/internal/disclosure/domain"
)

// ManifestIDs echoes the released ids per kind. The manifest never carries
// record content; formatting released records is a downstream concern.
type ManifestIDs struct {
	ConversationIDs []uuid.UUID `json:"conversationIds"`
	NoteIDs         []uuid.UUID `json:"noteIds"`
	FileIDs         []uuid.UUID `json:"fileIds"`
}

// DiscloseResponse is the neutral manifest returned on an allowed disclosure.
type DiscloseResponse struct {
	OK             bool        `json:"ok"`
	Classification string      `json:"classification"`
	IDs            ManifestIDs `json:"ids"`
}

// MapManifestToResponse converts a domain manifest to an API response.
func MapManifestToResponse(manifest *disclosureDomain.Manifest) DiscloseResponse {
	return DiscloseResponse{
		OK:             manifest.OK,
		Classification: manifest.Classification,
		IDs: ManifestIDs{
			ConversationIDs: emptyIfNil(manifest.ConversationIDs),
			NoteIDs:         emptyIfNil(manifest.NoteIDs),
			FileIDs:         emptyIfNil(manifest.FileIDs),
		},
	}
}

// emptyIfNil keeps absent id lists as [] rather than null in the JSON body.
func emptyIfNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
