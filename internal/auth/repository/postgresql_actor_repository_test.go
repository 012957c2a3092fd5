package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	"github.com/carebridgehq/chartgate/internal/testutil"
)

func TestPostgreSQLActorRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	ctx := context.Background()
	repo := NewPostgreSQLActorRepository(db)

	t.Run("CreateAndGet", func(t *testing.T) {
		testutil.CleanupPostgresDB(t, db)

		actor := &authDomain.Actor{
			ID:       uuid.Must(uuid.NewV7()),
			Name:     "dr-rivera",
			Secret:   "$argon2id$v=19$m=65536,t=3,p=4$hash",
			IsActive: true,
		}

		require.NoError(t, repo.Create(ctx, actor))

		got, err := repo.Get(ctx, actor.ID)
		require.NoError(t, err)
		assert.Equal(t, actor.ID, got.ID)
		assert.Equal(t, actor.Name, got.Name)
		assert.Equal(t, actor.Secret, got.Secret)
		assert.True(t, got.IsActive)
	})

	t.Run("DuplicateNameConflict", func(t *testing.T) {
		testutil.CleanupPostgresDB(t, db)

		first := &authDomain.Actor{
			ID:       uuid.Must(uuid.NewV7()),
			Name:     "duplicate-name",
			Secret:   "hash-a",
			IsActive: true,
		}
		require.NoError(t, repo.Create(ctx, first))

		second := &authDomain.Actor{
			ID:       uuid.Must(uuid.NewV7()),
			Name:     "duplicate-name",
			Secret:   "hash-b",
			IsActive: true,
		}
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, authDomain.ErrActorAlreadyExists)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		testutil.CleanupPostgresDB(t, db)

		_, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, authDomain.ErrActorNotFound)
	})
}

func TestPostgreSQLTokenRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	ctx := context.Background()
	actorRepo := NewPostgreSQLActorRepository(db)
	tokenRepo := NewPostgreSQLTokenRepository(db)

	t.Run("CreateAndGetByTokenHash", func(t *testing.T) {
		testutil.CleanupPostgresDB(t, db)

		actor := &authDomain.Actor{
			ID:       uuid.Must(uuid.NewV7()),
			Name:     "token-owner",
			Secret:   "hash",
			IsActive: true,
		}
		require.NoError(t, actorRepo.Create(ctx, actor))

		token := &authDomain.Token{
			ID:        uuid.Must(uuid.NewV7()),
			ActorID:   actor.ID,
			TokenHash: "abcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890",
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		}
		require.NoError(t, tokenRepo.Create(ctx, token))

		got, err := tokenRepo.GetByTokenHash(ctx, token.TokenHash)
		require.NoError(t, err)
		assert.Equal(t, token.ID, got.ID)
		assert.Equal(t, actor.ID, got.ActorID)
		assert.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, time.Second)
	})

	t.Run("GetByTokenHashNotFound", func(t *testing.T) {
		testutil.CleanupPostgresDB(t, db)

		_, err := tokenRepo.GetByTokenHash(ctx, "unknown-hash")
		assert.ErrorIs(t, err, authDomain.ErrTokenNotFound)
	})
}
