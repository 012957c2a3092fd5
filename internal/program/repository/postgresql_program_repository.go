// Package repository provides data persistence implementations for program entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/carebridgehq/chartgate/internal/database"
	"github.com/carebridgehq/chartgate/internal/program/domain"

	apperrors "github.com/carebridgehq/chartgate/internal/errors"
)

// PostgreSQLProgramRepository handles program persistence for PostgreSQL
type PostgreSQLProgramRepository struct {
	db *sql.DB
}

// NewPostgreSQLProgramRepository creates a new PostgreSQLProgramRepository
func NewPostgreSQLProgramRepository(db *sql.DB) *PostgreSQLProgramRepository {
	return &PostgreSQLProgramRepository{
		db: db,
	}
}

// Get retrieves a program by ID
func (r *PostgreSQLProgramRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Program, error) {
	var program domain.Program
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, sensitivity, created_at, updated_at
			  FROM programs WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&program.ID, &program.Name, &program.Sensitivity, &program.CreatedAt, &program.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get program by id")
	}

	return &program, nil
}

// ListByIDs retrieves the programs matching the given ids. Missing ids are
// simply absent from the result; callers decide whether that is an error.
func (r *PostgreSQLProgramRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Program, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, sensitivity, created_at, updated_at
			  FROM programs WHERE id = ANY($1)`

	rows, err := querier.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list programs by ids")
	}
	defer func() { _ = rows.Close() }()

	var programs []*domain.Program
	for rows.Next() {
		var program domain.Program
		if err := rows.Scan(
			&program.ID, &program.Name, &program.Sensitivity, &program.CreatedAt, &program.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan program")
		}
		programs = append(programs, &program)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate programs")
	}

	return programs, nil
}
