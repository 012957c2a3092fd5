// Package domain defines references to the clinical records a disclosure can
// carry: conversations, notes and files.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/carebridgehq/chartgate/internal/errors"
)

// Kind identifies which class of clinical record a reference points at.
type Kind string

const (
	KindConversation Kind = "conversation"
	KindNote         Kind = "note"
	KindFile         Kind = "file"
)

// ResourceRef is a loaded reference to a clinical record. Only the fields the
// disclosure decision needs are carried; record bodies stay in their own
// stores.
type ResourceRef struct {
	ID        uuid.UUID
	Kind      Kind
	ProgramID *uuid.UUID
	OwnerID   uuid.UUID
	CreatedAt time.Time
}

// Domain-specific errors for resource operations.
var (
	// ErrResourceNotVisible indicates at least one requested record does not
	// exist or is outside the caller's row-level visibility. The two cases are
	// indistinguishable on purpose.
	ErrResourceNotVisible = errors.Wrap(errors.ErrForbidden, "resource not visible")

	// ErrUnknownKind indicates an unrecognized resource kind.
	ErrUnknownKind = errors.Wrap(errors.ErrInvalidInput, "unknown resource kind")
)
