package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridgehq/chartgate/internal/program/domain"
	"github.com/carebridgehq/chartgate/internal/testutil"
)

func TestPostgreSQLProgramRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLProgramRepository(db)
	ctx := context.Background()

	standardID := testutil.CreateTestProgram(t, db, "primary care", "standard")
	specialID := testutil.CreateTestProgram(t, db, "substance use", "specially_protected")

	t.Run("Get_Success", func(t *testing.T) {
		program, err := repo.Get(ctx, specialID)
		require.NoError(t, err)
		assert.Equal(t, specialID, program.ID)
		assert.Equal(t, "substance use", program.Name)
		assert.Equal(t, domain.SensitivitySpecial, program.Sensitivity)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("ListByIDs_Success", func(t *testing.T) {
		programs, err := repo.ListByIDs(ctx, []uuid.UUID{standardID, specialID})
		require.NoError(t, err)
		assert.Len(t, programs, 2)
	})

	t.Run("ListByIDs_MissingIDsAreAbsent", func(t *testing.T) {
		programs, err := repo.ListByIDs(ctx, []uuid.UUID{standardID, uuid.Must(uuid.NewV7())})
		require.NoError(t, err)
		assert.Len(t, programs, 1)
		assert.Equal(t, standardID, programs[0].ID)
	})

	t.Run("ListByIDs_EmptyInput", func(t *testing.T) {
		programs, err := repo.ListByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, programs)
	})
}
