// Package repository provides data persistence implementations for consent records.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
	"github.com/carebridgehq/chartgate/internal/database"

	apperrors "github.com/carebridgehq/chartgate/internal/errors"
)

// PostgreSQLConsentRepository handles consent persistence for PostgreSQL.
// Consents are append-and-revoke only; no method ever deletes a row.
type PostgreSQLConsentRepository struct {
	db *sql.DB
}

// NewPostgreSQLConsentRepository creates a new PostgreSQLConsentRepository
func NewPostgreSQLConsentRepository(db *sql.DB) *PostgreSQLConsentRepository {
	return &PostgreSQLConsentRepository{
		db: db,
	}
}

// Create inserts a new consent record.
func (r *PostgreSQLConsentRepository) Create(ctx context.Context, consent *consentDomain.Consent) error {
	querier := database.GetTx(ctx, r.db)

	scope, err := consent.Scope.Encode()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode consent scope")
	}

	query := `INSERT INTO consents
			  (id, patient_id, recipient, scope, valid_from, valid_until, artifact_hash, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(ctx, query,
		consent.ID,
		consent.PatientID,
		consent.Recipient,
		scope,
		consent.ValidFrom,
		consent.ValidUntil,
		nullableString(consent.ArtifactHash),
		consent.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create consent")
	}
	return nil
}

// Get retrieves a consent by ID, revoked or not.
func (r *PostgreSQLConsentRepository) Get(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, patient_id, recipient, scope, valid_from, valid_until,
			  artifact_hash, created_at, revoked_at
			  FROM consents WHERE id = $1`

	var (
		consent      consentDomain.Consent
		scope        []byte
		artifactHash sql.NullString
	)
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&consent.ID,
		&consent.PatientID,
		&consent.Recipient,
		&scope,
		&consent.ValidFrom,
		&consent.ValidUntil,
		&artifactHash,
		&consent.CreatedAt,
		&consent.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, consentDomain.ErrConsentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get consent by id")
	}

	consent.Scope = consentDomain.DecodeScope(scope)
	consent.ArtifactHash = artifactHash.String

	return &consent, nil
}

// Revoke sets revoked_at on an unrevoked consent. Logical delete only; the
// row stays forever.
func (r *PostgreSQLConsentRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE consents SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`

	result, err := querier.ExecContext(ctx, query, revokedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke consent")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check revoke result")
	}
	if affected == 0 {
		// Either absent or already revoked; look it up to tell the two apart.
		consent, getErr := r.Get(ctx, id)
		if getErr != nil {
			return getErr
		}
		if consent.RevokedAt != nil {
			return consentDomain.ErrConsentAlreadyRevoked
		}
		return consentDomain.ErrConsentNotFound
	}

	return nil
}

// ListByPatient returns a patient's consents, newest first.
func (r *PostgreSQLConsentRepository) ListByPatient(
	ctx context.Context,
	patientID uuid.UUID,
	offset, limit int,
) ([]*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, patient_id, recipient, scope, valid_from, valid_until,
			  artifact_hash, created_at, revoked_at
			  FROM consents WHERE patient_id = $1
			  ORDER BY created_at DESC, id DESC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, patientID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list consents")
	}
	defer func() { _ = rows.Close() }()

	var consents []*consentDomain.Consent
	for rows.Next() {
		var (
			consent      consentDomain.Consent
			scope        []byte
			artifactHash sql.NullString
		)
		if err := rows.Scan(
			&consent.ID,
			&consent.PatientID,
			&consent.Recipient,
			&scope,
			&consent.ValidFrom,
			&consent.ValidUntil,
			&artifactHash,
			&consent.CreatedAt,
			&consent.RevokedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan consent")
		}
		consent.Scope = consentDomain.DecodeScope(scope)
		consent.ArtifactHash = artifactHash.String
		consents = append(consents, &consent)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate consents")
	}

	return consents, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
