package repository

import (
	"context"
	"database/sql"
	"errors"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	"github.com/carebridgehq/chartgate/internal/database"

	apperrors "github.com/carebridgehq/chartgate/internal/errors"
)

// PostgreSQLTokenRepository handles token persistence for PostgreSQL
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQLTokenRepository
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{
		db: db,
	}
}

// Create inserts a new token
func (r *PostgreSQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO tokens (id, actor_id, token_hash, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, NOW())`

	_, err := querier.ExecContext(ctx, query, token.ID, token.ActorID, token.TokenHash, token.ExpiresAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByTokenHash retrieves a token by its hash
func (r *PostgreSQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	var token authDomain.Token
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, actor_id, token_hash, expires_at, created_at
			  FROM tokens WHERE token_hash = $1`

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID, &token.ActorID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token by hash")
	}

	return &token, nil
}
