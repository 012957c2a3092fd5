package domain

import "github.com/carebridgehq/chartgate/internal/errors"

// Domain-specific errors for audit chain operations.
var (
	// ErrEntryNotFound indicates the requested audit entry does not exist.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "audit entry not found")

	// ErrChainForked indicates an insert tried to reuse an already-linked
	// prev_hash. Appends that lose the tail race surface this instead of
	// silently creating a second branch.
	ErrChainForked = errors.Wrap(errors.ErrConflict, "audit chain fork detected")

	// ErrUnknownHashVersion indicates an entry carries a hash version this
	// build cannot recompute.
	ErrUnknownHashVersion = errors.Wrap(errors.ErrInvalidInput, "unknown audit hash version")

	// ErrSignatureInvalid indicates the entry signature does not match.
	ErrSignatureInvalid = errors.Wrap(errors.ErrInvalidInput, "audit entry signature invalid")
)
