package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carebridgehq/chartgate/internal/program/domain"
)

// mockProgramRepository is a mock implementation of ProgramRepository for testing.
type mockProgramRepository struct {
	mock.Mock
}

func (m *mockProgramRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Program), args.Error(1)
}

func (m *mockProgramRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Program, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Program), args.Error(1)
}

func TestClassifierUseCase_Classify(t *testing.T) {
	ctx := context.Background()

	standardID := uuid.Must(uuid.NewV7())
	specialID := uuid.Must(uuid.NewV7())

	t.Run("Success_MixedSensitivities", func(t *testing.T) {
		mockRepo := &mockProgramRepository{}
		mockRepo.On("ListByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).
			Return([]*domain.Program{
				{ID: standardID, Name: "primary care", Sensitivity: domain.SensitivityStandard},
				{ID: specialID, Name: "substance use", Sensitivity: domain.SensitivitySpecial},
			}, nil).
			Once()

		classifier := NewClassifierUseCase(mockRepo)

		// Duplicates and nils collapse into a single lookup.
		classification, err := classifier.Classify(ctx, []*uuid.UUID{
			&standardID, &specialID, &standardID, nil,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.SensitivityStandard, classification.For(&standardID))
		assert.Equal(t, domain.SensitivitySpecial, classification.For(&specialID))
		assert.Equal(t, domain.SensitivityStandard, classification.For(nil))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success_NoProgramsReferenced", func(t *testing.T) {
		mockRepo := &mockProgramRepository{}

		classifier := NewClassifierUseCase(mockRepo)
		classification, err := classifier.Classify(ctx, []*uuid.UUID{nil, nil})

		assert.NoError(t, err)
		assert.Empty(t, classification)
		// Repository should never be touched when nothing references a program.
		mockRepo.AssertNotCalled(t, "ListByIDs")
	})

	t.Run("Error_UnknownProgram", func(t *testing.T) {
		mockRepo := &mockProgramRepository{}
		unknownID := uuid.Must(uuid.NewV7())
		mockRepo.On("ListByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).
			Return([]*domain.Program{}, nil).
			Once()

		classifier := NewClassifierUseCase(mockRepo)
		classification, err := classifier.Classify(ctx, []*uuid.UUID{&unknownID})

		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
		assert.Nil(t, classification)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		mockRepo := &mockProgramRepository{}
		mockRepo.On("ListByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).
			Return(nil, assert.AnError).
			Once()

		classifier := NewClassifierUseCase(mockRepo)
		_, err := classifier.Classify(ctx, []*uuid.UUID{&standardID})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestClassification_Special(t *testing.T) {
	specialID := uuid.Must(uuid.NewV7())
	standardID := uuid.Must(uuid.NewV7())

	classification := Classification{
		specialID:  domain.SensitivitySpecial,
		standardID: domain.SensitivityStandard,
	}

	assert.True(t, classification.Special([]*uuid.UUID{&standardID, &specialID}))
	assert.False(t, classification.Special([]*uuid.UUID{&standardID, nil}))
	assert.False(t, classification.Special(nil))
}
