// Package repository provides data persistence implementations for authentication entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	"github.com/carebridgehq/chartgate/internal/database"

	apperrors "github.com/carebridgehq/chartgate/internal/errors"
)

// PostgreSQLActorRepository handles actor persistence for PostgreSQL
type PostgreSQLActorRepository struct {
	db *sql.DB
}

// NewPostgreSQLActorRepository creates a new PostgreSQLActorRepository
func NewPostgreSQLActorRepository(db *sql.DB) *PostgreSQLActorRepository {
	return &PostgreSQLActorRepository{
		db: db,
	}
}

// Create inserts a new actor
func (r *PostgreSQLActorRepository) Create(ctx context.Context, actor *authDomain.Actor) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO actors (id, name, secret, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, actor.ID, actor.Name, actor.Secret, actor.IsActive)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return authDomain.ErrActorAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create actor")
	}
	return nil
}

// Get retrieves an actor by ID
func (r *PostgreSQLActorRepository) Get(ctx context.Context, id uuid.UUID) (*authDomain.Actor, error) {
	var actor authDomain.Actor
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, secret, is_active, created_at, updated_at
			  FROM actors WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&actor.ID, &actor.Name, &actor.Secret, &actor.IsActive, &actor.CreatedAt, &actor.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrActorNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get actor by id")
	}

	return &actor, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
