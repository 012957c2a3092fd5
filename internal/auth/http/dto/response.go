package dto

import (
	"time"
)

// CreateActorResponse contains the result of registering a new actor.
// SECURITY: The secret is only returned once and must be saved securely.
type CreateActorResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"` //nolint:gosec // returned once on creation
}

// IssueTokenResponse contains the result of issuing a token.
// SECURITY: The token is only returned once and must be saved securely.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
