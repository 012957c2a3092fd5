// Package usecase implements program sensitivity classification. The
// disclosure gate calls the classifier before any consent evaluation so that
// specially protected records are never released on the default rules.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/carebridgehq/chartgate/internal/program/domain"
)

// ProgramRepository defines the interface for program persistence operations.
type ProgramRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Program, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Program, error)
}

// Classification maps a program ID to its resolved sensitivity.
type Classification map[uuid.UUID]domain.Sensitivity

// For resolves the sensitivity of a single resource. Resources not attached to
// any program are standard.
func (c Classification) For(programID *uuid.UUID) domain.Sensitivity {
	if programID == nil {
		return domain.SensitivityStandard
	}
	if s, ok := c[*programID]; ok {
		return s
	}
	return domain.SensitivityStandard
}

// Special reports whether any of the given resources belongs to a specially
// protected program.
func (c Classification) Special(programIDs []*uuid.UUID) bool {
	for _, id := range programIDs {
		if c.For(id) == domain.SensitivitySpecial {
			return true
		}
	}
	return false
}

// ClassifierUseCase defines the interface for program classification logic.
type ClassifierUseCase interface {
	// Classify resolves the sensitivity of every program referenced by the
	// given resources. A nil entry means the resource has no program. A
	// reference to a program that does not exist is an error: records must
	// never be classified by guessing.
	Classify(ctx context.Context, programIDs []*uuid.UUID) (Classification, error)
}
