package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridgehq/chartgate/internal/resource/domain"
	"github.com/carebridgehq/chartgate/internal/testutil"
)

func TestPostgreSQLResourceRepository_GetVisible(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLResourceRepository(db)
	ctx := context.Background()

	ownerID := testutil.CreateTestActor(t, db, "owner")
	otherID := testutil.CreateTestActor(t, db, "other")
	programID := testutil.CreateTestProgram(t, db, "substance use", "specially_protected")

	ownNoteID := testutil.CreateTestResource(t, db, "notes", ownerID, &programID)
	plainNoteID := testutil.CreateTestResource(t, db, "notes", ownerID, nil)
	foreignNoteID := testutil.CreateTestResource(t, db, "notes", otherID, nil)

	t.Run("Success_OnlyVisibleRowsReturned", func(t *testing.T) {
		refs, err := repo.GetVisible(ctx, ownerID, domain.KindNote, []uuid.UUID{
			ownNoteID, plainNoteID, foreignNoteID,
		})
		require.NoError(t, err)

		// The foreign note is silently missing, not an error.
		require.Len(t, refs, 2)
		byID := map[uuid.UUID]*domain.ResourceRef{}
		for _, ref := range refs {
			byID[ref.ID] = ref
		}
		require.Contains(t, byID, ownNoteID)
		require.Contains(t, byID, plainNoteID)
		assert.Equal(t, domain.KindNote, byID[ownNoteID].Kind)
		assert.Equal(t, programID, *byID[ownNoteID].ProgramID)
		assert.Nil(t, byID[plainNoteID].ProgramID)
	})

	t.Run("Success_NonexistentIDsAreMissing", func(t *testing.T) {
		refs, err := repo.GetVisible(ctx, ownerID, domain.KindNote, []uuid.UUID{
			ownNoteID, uuid.Must(uuid.NewV7()),
		})
		require.NoError(t, err)
		assert.Len(t, refs, 1)
	})

	t.Run("Success_EmptyInput", func(t *testing.T) {
		refs, err := repo.GetVisible(ctx, ownerID, domain.KindNote, nil)
		require.NoError(t, err)
		assert.Nil(t, refs)
	})

	t.Run("Error_UnknownKind", func(t *testing.T) {
		_, err := repo.GetVisible(ctx, ownerID, domain.Kind("secrets"), []uuid.UUID{ownNoteID})
		assert.ErrorIs(t, err, domain.ErrUnknownKind)
	})
}
