// Package domain defines the disclosure request and its result manifest. A
// disclosure is all-or-nothing: either every requested record is released and
// one export entry lands on the audit chain, or nothing is released and a
// denial entry lands instead.
package domain

import (
	"github.com/google/uuid"

	"github.com/carebridgehq/chartgate/internal/errors"
)

// Request is a fully parsed disclosure request. ActorID and Origin come from
// the authenticated transport layer, never from the request body.
type Request struct {
	ActorID uuid.UUID
	// ConsentID is the consent the caller presents for specially protected
	// records; optional for standard records.
	ConsentID       *uuid.UUID
	ConversationIDs []uuid.UUID
	NoteIDs         []uuid.UUID
	FileIDs         []uuid.UUID
	Purpose         string
	Origin          string
}

// Empty reports whether the request names no records at all.
func (r *Request) Empty() bool {
	return len(r.ConversationIDs) == 0 && len(r.NoteIDs) == 0 && len(r.FileIDs) == 0
}

// Manifest is the successful disclosure result: the classification the release
// was evaluated under and the exact ids released.
type Manifest struct {
	OK              bool
	Classification  string
	ConversationIDs []uuid.UUID
	NoteIDs         []uuid.UUID
	FileIDs         []uuid.UUID
}

var (
	// ErrDisclosureDenied is the single external denial. Every denial reason
	// (record not visible, consent missing, expired, revoked, scope too
	// narrow) collapses into it so the response never leaks which rule fired.
	ErrDisclosureDenied = errors.Wrap(errors.ErrForbidden, "disclosure denied")

	// ErrEmptyRequest indicates the request names no records. Rejected before
	// the pipeline runs, so it never produces an audit entry.
	ErrEmptyRequest = errors.Wrap(errors.ErrInvalidInput, "disclosure request names no records")

	// ErrAuditWriteFailed indicates the audit append for a decision failed.
	// The gate must never answer a request whose decision is not on the chain,
	// so this always surfaces as an internal failure regardless of what broke
	// the append.
	ErrAuditWriteFailed = errors.New("audit write failed after disclosure decision")
)
