package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/carebridgehq/chartgate/internal/program/domain"
)

// classifierUseCase implements ClassifierUseCase on top of the program repository.
type classifierUseCase struct {
	programRepo ProgramRepository
}

// NewClassifierUseCase creates a new ClassifierUseCase.
func NewClassifierUseCase(programRepo ProgramRepository) ClassifierUseCase {
	return &classifierUseCase{programRepo: programRepo}
}

// Classify resolves the sensitivity of every referenced program in a single
// repository round trip.
func (c *classifierUseCase) Classify(
	ctx context.Context,
	programIDs []*uuid.UUID,
) (Classification, error) {
	unique := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(programIDs))
	for _, id := range programIDs {
		if id == nil {
			continue
		}
		if _, seen := unique[*id]; seen {
			continue
		}
		unique[*id] = struct{}{}
		ids = append(ids, *id)
	}
	if len(ids) == 0 {
		return Classification{}, nil
	}

	programs, err := c.programRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	classification := make(Classification, len(programs))
	for _, program := range programs {
		classification[program.ID] = program.Sensitivity
	}

	for id := range unique {
		if _, ok := classification[id]; !ok {
			return nil, domain.ErrProgramNotFound
		}
	}

	return classification, nil
}
