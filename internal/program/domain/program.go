// Package domain defines treatment programs and their sensitivity levels.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/carebridgehq/chartgate/internal/errors"
)

// Sensitivity is the disclosure classification of a treatment program.
type Sensitivity string

const (
	// SensitivityStandard marks records disclosable under the default rules.
	SensitivityStandard Sensitivity = "standard"

	// SensitivitySpecial marks records that require explicit consent coverage
	// before any disclosure (substance use, behavioral health and similar
	// specially protected programs).
	SensitivitySpecial Sensitivity = "specially_protected"
)

// Program represents a treatment program that clinical records belong to.
type Program struct {
	ID          uuid.UUID
	Name        string
	Sensitivity Sensitivity
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Domain-specific errors for program operations.
var (
	// ErrProgramNotFound indicates the requested program does not exist.
	ErrProgramNotFound = errors.Wrap(errors.ErrNotFound, "program not found")
)
