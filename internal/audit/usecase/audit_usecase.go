package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
	auditService "github.com/carebridgehq/chartgate/internal/audit/service"
	"github.com/carebridgehq/chartgate/internal/database"
	"github.com/carebridgehq/chartgate/internal/redact"
)

// verifyBatchSize bounds memory during a chain walk.
const verifyBatchSize = 500

// auditUseCase implements the AuditUseCase interface.
type auditUseCase struct {
	txManager database.TxManager
	auditRepo AuditRepository
	hasher    auditService.ChainHasher
	signer    auditService.EntrySigner
	now       func() time.Time
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(
	txManager database.TxManager,
	auditRepo AuditRepository,
	hasher auditService.ChainHasher,
	signer auditService.EntrySigner,
) AuditUseCase {
	return &auditUseCase{
		txManager: txManager,
		auditRepo: auditRepo,
		hasher:    hasher,
		signer:    signer,
		now:       time.Now,
	}
}

// Append links a new entry to the chain tail. The advisory lock, the tail
// read and the insert share one transaction so two appends can never link to
// the same tail. Free-text fields are redacted before hashing: what is hashed
// is exactly what is stored.
func (u *auditUseCase) Append(ctx context.Context, input *AppendInput) (*auditDomain.AuditEntry, error) {
	entry := &auditDomain.AuditEntry{
		ID:           uuid.Must(uuid.NewV7()),
		ActorID:      input.ActorID,
		Action:       input.Action,
		ResourceKind: input.ResourceKind,
		ResourceIDs:  input.ResourceIDs,
		Sensitivity:  input.Sensitivity,
		ProgramID:    input.ProgramID,
		ConsentID:    input.ConsentID,
		Purpose:      redact.Redact(input.Purpose).Cleaned,
		Origin:       input.Origin,
		Metadata:     redactMetadata(input.Metadata),
		HashVersion:  auditDomain.HashVersion,
	}

	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.auditRepo.LockChain(txCtx); err != nil {
			return err
		}

		tail, err := u.auditRepo.Tail(txCtx)
		if err != nil {
			return err
		}

		// Chain order is (created_at, id); clamp the timestamp so a backwards
		// clock step cannot put the new entry before the tail. Truncate to
		// microseconds to match TIMESTAMPTZ precision, otherwise the hash of
		// a reloaded entry would never match the stored one.
		createdAt := u.now().UTC().Truncate(time.Microsecond)
		if !tail.CreatedAt.IsZero() && !createdAt.After(tail.CreatedAt) {
			createdAt = tail.CreatedAt.Add(time.Microsecond)
		}
		entry.CreatedAt = createdAt
		entry.PrevHash = tail.Hash

		hash, err := u.hasher.ComputeHash(entry)
		if err != nil {
			return err
		}
		entry.Hash = hash

		signature, err := u.signer.Sign(entry)
		if err != nil {
			return err
		}
		entry.Signature = signature

		return u.auditRepo.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Verify recomputes every link of the chain inside a repeatable-read snapshot
// so concurrent appends cannot make an intact chain look broken mid-walk.
func (u *auditUseCase) Verify(ctx context.Context) (*auditDomain.VerificationReport, error) {
	report := &auditDomain.VerificationReport{Intact: true}

	err := u.txManager.WithSnapshot(ctx, func(txCtx context.Context) error {
		total, err := u.auditRepo.Count(txCtx)
		if err != nil {
			return err
		}
		report.TotalEntries = total

		prevHash := auditDomain.GenesisHash
		var (
			afterCreatedAt time.Time
			afterID        uuid.UUID
		)

		for {
			entries, err := u.auditRepo.ListAsc(txCtx, afterCreatedAt, afterID, verifyBatchSize)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return nil
			}

			for _, entry := range entries {
				if !u.verifyEntry(entry, prevHash) {
					report.Intact = false
					id := entry.ID
					report.BrokenAtID = &id
					return nil
				}
				report.VerifiedEntries++
				prevHash = entry.Hash
			}

			last := entries[len(entries)-1]
			afterCreatedAt = last.CreatedAt
			afterID = last.ID
		}
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

// VerifyAndRecord verifies the chain and appends a chain_verified entry with
// the report. The record is written even when the chain is broken: later
// entries keep linking to the tail, and the break stays visible at its id.
func (u *auditUseCase) VerifyAndRecord(
	ctx context.Context,
	actorID uuid.UUID,
) (*auditDomain.VerificationReport, error) {
	report, err := u.Verify(ctx)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"intact":           report.Intact,
		"total_entries":    report.TotalEntries,
		"verified_entries": report.VerifiedEntries,
	}
	if report.BrokenAtID != nil {
		metadata["broken_at_id"] = report.BrokenAtID.String()
	}

	if _, err := u.Append(ctx, &AppendInput{
		ActorID:  actorID,
		Action:   auditDomain.ActionChainVerified,
		Metadata: metadata,
	}); err != nil {
		return nil, err
	}

	return report, nil
}

// List returns entries newest first along with the total count.
func (u *auditUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.AuditEntry, int64, error) {
	entries, err := u.auditRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	count, err := u.auditRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return entries, count, nil
}

// verifyEntry checks a single link: version, linkage, recomputed hash and
// signature.
func (u *auditUseCase) verifyEntry(entry *auditDomain.AuditEntry, prevHash string) bool {
	if entry.HashVersion != auditDomain.HashVersion {
		return false
	}
	if entry.PrevHash != prevHash {
		return false
	}

	recomputed, err := u.hasher.ComputeHash(entry)
	if err != nil || recomputed != entry.Hash {
		return false
	}

	return u.signer.Verify(entry) == nil
}

// redactMetadata redacts every string value in a metadata map, descending
// into nested maps and slices. Keys are caller-controlled identifiers, not
// free text; other value types pass through unchanged.
func redactMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}

	cleaned := make(map[string]any, len(metadata))
	for key, value := range metadata {
		cleaned[key] = redactValue(value)
	}
	return cleaned
}

func redactValue(value any) any {
	switch v := value.(type) {
	case string:
		return redact.Redact(v).Cleaned
	case map[string]any:
		return redactMetadata(v)
	case []any:
		cleaned := make([]any, len(v))
		for i, item := range v {
			cleaned[i] = redactValue(item)
		}
		return cleaned
	default:
		return value
	}
}
