// Package domain defines the hash-chained audit entries that make every
// disclosure decision tamper evident.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies what an audit entry records.
type Action string

const (
	ActionView             Action = "view"
	ActionDisclosureExport Action = "disclosure_export"
	ActionDisclosureDenied Action = "disclosure_denied"
	ActionConsentCreated   Action = "consent_created"
	ActionConsentRevoked   Action = "consent_revoked"
	ActionChainVerified    Action = "chain_verified"
)

// HashVersion tags which canonicalization and hash algorithm produced an
// entry's hash. Bump it when either changes; verification dispatches on the
// stored version, never on the current one.
const HashVersion = "chain-v1"

// GenesisHash is the prev_hash of the first entry in the chain. It is a fixed
// constant so an empty chain and a truncated chain are distinguishable.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// AuditEntry is one link in the audit chain. Hash covers every field above it
// plus PrevHash, so editing or removing any persisted entry breaks every
// later link.
type AuditEntry struct {
	ID           uuid.UUID
	ActorID      uuid.UUID
	Action       Action
	ResourceKind string
	ResourceIDs  []uuid.UUID
	Sensitivity  string
	ProgramID    *uuid.UUID
	ConsentID    *uuid.UUID
	Purpose      string
	Origin       string
	Metadata     map[string]any
	Hash         string
	PrevHash     string
	HashVersion  string
	Signature    string
	CreatedAt    time.Time
}

// ChainTail identifies the current last link of the chain.
type ChainTail struct {
	Hash      string
	CreatedAt time.Time
}

// VerificationReport is the outcome of a full chain walk.
type VerificationReport struct {
	TotalEntries    int64
	VerifiedEntries int64
	Intact          bool
	BrokenAtID      *uuid.UUID
}
