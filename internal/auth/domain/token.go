package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a bearer token at rest. Only the SHA-256 of the plain token is
// stored; the plain token is shown once at issuance.
type Token struct {
	ID        uuid.UUID
	ActorID   uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IssueTokenInput carries an actor's credentials for token issuance.
type IssueTokenInput struct {
	ActorID     uuid.UUID
	ActorSecret string
}

// IssueTokenOutput carries the plain token back to the caller. It is never
// persisted.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}
