// Package usecase implements the audit chain business logic: serialized
// appends, full-chain verification and the read API. Use cases coordinate the
// repository, the chain hasher and the optional entry signer.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
)

// AuditRepository defines the interface for audit entry persistence operations.
type AuditRepository interface {
	// LockChain serializes appends for the lifetime of the surrounding
	// transaction.
	LockChain(ctx context.Context) error
	Tail(ctx context.Context) (*auditDomain.ChainTail, error)
	Create(ctx context.Context, entry *auditDomain.AuditEntry) error
	ListAsc(ctx context.Context, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]*auditDomain.AuditEntry, error)
	List(ctx context.Context, offset, limit int) ([]*auditDomain.AuditEntry, error)
	Count(ctx context.Context) (int64, error)
}

// AppendInput carries the caller-controlled fields of a new audit entry. The
// chain fields (hash, prev hash, signature, timestamp) are computed during
// the append and never accepted from callers.
type AppendInput struct {
	ActorID      uuid.UUID
	Action       auditDomain.Action
	ResourceKind string
	ResourceIDs  []uuid.UUID
	Sensitivity  string
	ProgramID    *uuid.UUID
	ConsentID    *uuid.UUID
	Purpose      string
	Origin       string
	Metadata     map[string]any
}

// AuditUseCase defines the interface for audit chain business logic.
type AuditUseCase interface {
	// Append links a new entry to the chain tail. Appends are serialized; the
	// returned entry carries its computed hash.
	Append(ctx context.Context, input *AppendInput) (*auditDomain.AuditEntry, error)

	// Verify walks the whole chain in a consistent snapshot and recomputes
	// every link. It never modifies the chain. A broken chain is reported,
	// not returned as an error; errors mean the walk itself failed.
	Verify(ctx context.Context) (*auditDomain.VerificationReport, error)

	// VerifyAndRecord verifies the chain and then appends a chain_verified
	// entry carrying the report, attributing the check to actorID.
	VerifyAndRecord(ctx context.Context, actorID uuid.UUID) (*auditDomain.VerificationReport, error)

	// List returns entries newest first along with the total count.
	List(ctx context.Context, offset, limit int) ([]*auditDomain.AuditEntry, int64, error)
}
