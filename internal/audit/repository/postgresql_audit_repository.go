// Package repository provides data persistence implementations for audit chain entries.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
	"github.com/carebridgehq/chartgate/internal/database"

	apperrors "github.com/carebridgehq/chartgate/internal/errors"
)

// chainLockID keys the advisory lock that serializes chain appends. One lock
// for the whole table: the chain is a single linked list, so appends cannot
// meaningfully run in parallel anyway.
const chainLockID int64 = 7347918253640012801

// PostgreSQLAuditRepository handles audit entry persistence for PostgreSQL
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditRepository creates a new PostgreSQLAuditRepository
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{
		db: db,
	}
}

// LockChain takes the transaction-scoped advisory lock that serializes
// appends. Must be called inside a transaction; the lock releases on commit
// or rollback.
func (r *PostgreSQLAuditRepository) LockChain(ctx context.Context) error {
	querier := database.GetTx(ctx, r.db)

	if _, err := querier.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", chainLockID); err != nil {
		return apperrors.Wrap(err, "failed to lock audit chain")
	}
	return nil
}

// Tail returns the hash and timestamp of the chain tail. An empty chain
// yields the genesis constant and a zero time. Callers must hold the chain
// lock for the result to still be the tail at insert time.
func (r *PostgreSQLAuditRepository) Tail(ctx context.Context) (*auditDomain.ChainTail, error) {
	querier := database.GetTx(ctx, r.db)

	var tail auditDomain.ChainTail
	query := `SELECT hash, created_at FROM audit_entries ORDER BY created_at DESC, id DESC LIMIT 1`

	err := querier.QueryRowContext(ctx, query).Scan(&tail.Hash, &tail.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &auditDomain.ChainTail{Hash: auditDomain.GenesisHash}, nil
		}
		return nil, apperrors.Wrap(err, "failed to get audit chain tail")
	}

	tail.Hash = strings.TrimSpace(tail.Hash)
	return &tail, nil
}

// Create inserts a new audit entry. A unique violation on prev_hash means a
// concurrent append already linked to the same tail.
func (r *PostgreSQLAuditRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, r.db)

	metadata, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_entries
			  (id, actor_id, action, resource_kind, resource_ids, sensitivity, program_id,
			   consent_id, purpose, origin, metadata, hash, prev_hash, hash_version,
			   signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = querier.ExecContext(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.ResourceKind,
		pq.Array(entry.ResourceIDs),
		entry.Sensitivity,
		entry.ProgramID,
		entry.ConsentID,
		entry.Purpose,
		entry.Origin,
		metadata,
		entry.Hash,
		entry.PrevHash,
		entry.HashVersion,
		nullableString(entry.Signature),
		entry.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return auditDomain.ErrChainForked
		}
		return apperrors.Wrap(err, "failed to create audit entry")
	}
	return nil
}

// ListAsc returns up to limit entries in chain order, starting strictly after
// the (created_at, id) cursor. A zero cursor starts from the beginning.
func (r *PostgreSQLAuditRepository) ListAsc(
	ctx context.Context,
	afterCreatedAt time.Time,
	afterID uuid.UUID,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, actor_id, action, resource_kind, resource_ids, sensitivity, program_id,
			  consent_id, purpose, origin, metadata, hash, prev_hash, hash_version,
			  signature, created_at
			  FROM audit_entries
			  WHERE (created_at, id) > ($1, $2)
			  ORDER BY created_at ASC, id ASC
			  LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, afterCreatedAt, afterID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// List returns entries newest first for the read API.
func (r *PostgreSQLAuditRepository) List(ctx context.Context, offset, limit int) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, actor_id, action, resource_kind, resource_ids, sensitivity, program_id,
			  consent_id, purpose, origin, metadata, hash, prev_hash, hash_version,
			  signature, created_at
			  FROM audit_entries
			  ORDER BY created_at DESC, id DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// Count returns the total number of entries in the chain.
func (r *PostgreSQLAuditRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var count int64
	err := querier.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_entries").Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit entries")
	}
	return count, nil
}

func scanEntries(rows *sql.Rows) ([]*auditDomain.AuditEntry, error) {
	var entries []*auditDomain.AuditEntry
	for rows.Next() {
		var (
			entry     auditDomain.AuditEntry
			metadata  []byte
			signature sql.NullString
			ids       []uuid.UUID
			programID uuid.NullUUID
			consentID uuid.NullUUID
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.ResourceKind,
			pq.Array(&ids),
			&entry.Sensitivity,
			&programID,
			&consentID,
			&entry.Purpose,
			&entry.Origin,
			&metadata,
			&entry.Hash,
			&entry.PrevHash,
			&entry.HashVersion,
			&signature,
			&entry.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}

		entry.ResourceIDs = ids
		entry.Signature = signature.String
		if programID.Valid {
			entry.ProgramID = &programID.UUID
		}
		if consentID.Valid {
			entry.ConsentID = &consentID.UUID
		}
		// CHAR(64) columns come back space-padded on some drivers
		entry.Hash = strings.TrimSpace(entry.Hash)
		entry.PrevHash = strings.TrimSpace(entry.PrevHash)

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit entry metadata")
			}
		}

		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal audit entry metadata")
	}
	return data, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
