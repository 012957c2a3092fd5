package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
	"github.com/carebridgehq/chartgate/internal/testutil"
)

func TestPostgreSQLConsentRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLConsentRepository(db)
	ctx := context.Background()

	noteID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC().Truncate(time.Microsecond)
	validUntil := now.AddDate(0, 6, 0)

	consent := &consentDomain.Consent{
		ID:        uuid.Must(uuid.NewV7()),
		PatientID: uuid.Must(uuid.NewV7()),
		Recipient: "county health department",
		Scope: consentDomain.Scope{
			Kind:    consentDomain.ScopeByIDs,
			NoteIDs: []uuid.UUID{noteID},
		},
		ValidFrom:    now,
		ValidUntil:   &validUntil,
		ArtifactHash: "abc123",
		CreatedAt:    now,
	}

	t.Run("CreateAndGet", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, consent))

		loaded, err := repo.Get(ctx, consent.ID)
		require.NoError(t, err)
		assert.Equal(t, consent.PatientID, loaded.PatientID)
		assert.Equal(t, consentDomain.ScopeByIDs, loaded.Scope.Kind)
		assert.Equal(t, []uuid.UUID{noteID}, loaded.Scope.NoteIDs)
		assert.Equal(t, "abc123", loaded.ArtifactHash)
		assert.Nil(t, loaded.RevokedAt)
	})

	t.Run("CreateAndGet_OpenEnded", func(t *testing.T) {
		openEnded := &consentDomain.Consent{
			ID:        uuid.Must(uuid.NewV7()),
			PatientID: uuid.Must(uuid.NewV7()),
			Recipient: "research registry",
			Scope: consentDomain.Scope{
				Kind:    consentDomain.ScopeByIDs,
				NoteIDs: []uuid.UUID{uuid.Must(uuid.NewV7())},
			},
			ValidFrom: now,
			CreatedAt: now,
		}
		require.NoError(t, repo.Create(ctx, openEnded))

		loaded, err := repo.Get(ctx, openEnded.ID)
		require.NoError(t, err)
		assert.Nil(t, loaded.ValidUntil)
		assert.True(t, loaded.ActiveAt(now.AddDate(10, 0, 0)))
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, consentDomain.ErrConsentNotFound)
	})

	t.Run("Revoke_LogicalDeleteOnly", func(t *testing.T) {
		revokedAt := now.Add(time.Hour)
		require.NoError(t, repo.Revoke(ctx, consent.ID, revokedAt))

		// Row still present, revoked_at set.
		loaded, err := repo.Get(ctx, consent.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded.RevokedAt)
		assert.Equal(t, revokedAt, loaded.RevokedAt.UTC())
	})

	t.Run("Revoke_TwiceIsConflict", func(t *testing.T) {
		err := repo.Revoke(ctx, consent.ID, now.Add(2*time.Hour))
		assert.ErrorIs(t, err, consentDomain.ErrConsentAlreadyRevoked)
	})

	t.Run("Revoke_NotFound", func(t *testing.T) {
		err := repo.Revoke(ctx, uuid.Must(uuid.NewV7()), now)
		assert.ErrorIs(t, err, consentDomain.ErrConsentNotFound)
	})

	t.Run("ListByPatient", func(t *testing.T) {
		consents, err := repo.ListByPatient(ctx, consent.PatientID, 0, 10)
		require.NoError(t, err)
		require.Len(t, consents, 1)
		assert.Equal(t, consent.ID, consents[0].ID)

		consents, err = repo.ListByPatient(ctx, uuid.Must(uuid.NewV7()), 0, 10)
		require.NoError(t, err)
		assert.Empty(t, consents)
	})
}
