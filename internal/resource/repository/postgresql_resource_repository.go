// Package repository provides data persistence implementations for resource references.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/carebridgehq/chartgate/internal/database"
	"github.com/carebridgehq/chartgate/internal/resource/domain"

	apperrors "github.com/carebridgehq/chartgate/internal/errors"
)

// tableByKind maps each resource kind to its backing table. Visibility rules
// are identical across the three tables so a single query template serves all.
var tableByKind = map[domain.Kind]string{
	domain.KindConversation: "conversations",
	domain.KindNote:         "notes",
	domain.KindFile:         "files",
}

// PostgreSQLResourceRepository handles resource reference lookups for PostgreSQL
type PostgreSQLResourceRepository struct {
	db *sql.DB
}

// NewPostgreSQLResourceRepository creates a new PostgreSQLResourceRepository
func NewPostgreSQLResourceRepository(db *sql.DB) *PostgreSQLResourceRepository {
	return &PostgreSQLResourceRepository{
		db: db,
	}
}

// GetVisible loads the references among ids that actorID is allowed to see.
// Rows outside the actor's visibility are silently absent from the result; the
// caller compares lengths and must not learn which ids were filtered.
func (r *PostgreSQLResourceRepository) GetVisible(
	ctx context.Context,
	actorID uuid.UUID,
	kind domain.Kind,
	ids []uuid.UUID,
) ([]*domain.ResourceRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	table, ok := tableByKind[kind]
	if !ok {
		return nil, domain.ErrUnknownKind
	}

	querier := database.GetTx(ctx, r.db)

	query := fmt.Sprintf(
		`SELECT id, program_id, owner_actor_id, created_at
		 FROM %s WHERE id = ANY($1) AND owner_actor_id = $2`,
		table,
	)

	rows, err := querier.QueryContext(ctx, query, pq.Array(ids), actorID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query visible resources")
	}
	defer func() { _ = rows.Close() }()

	var refs []*domain.ResourceRef
	for rows.Next() {
		ref := domain.ResourceRef{Kind: kind}
		if err := rows.Scan(&ref.ID, &ref.ProgramID, &ref.OwnerID, &ref.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan resource reference")
		}
		refs = append(refs, &ref)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate resource references")
	}

	return refs, nil
}
