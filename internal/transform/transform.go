package transform

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
)

// ProfileTransform is one what-if edit of a fiscal profile. Transforms are
// composable and never modify their input.
type ProfileTransform interface {
	// Apply returns a modified copy of base.
	Apply(base *domain.FiscalProfile) (*domain.FiscalProfile, error)

	// Name returns a short identifier, e.g. "switch_regime".
	Name() string

	// Description returns a human-readable summary of the edit.
	Description() string

	// Validate checks the transform parameters against base without applying them.
	Validate(base *domain.FiscalProfile) error
}

// ApplyTransforms applies transforms in order, each one receiving the output
// of the previous one. base itself is left untouched.
func ApplyTransforms(base *domain.FiscalProfile, transforms []ProfileTransform) (*domain.FiscalProfile, error) {
	if base == nil {
		return nil, fmt.Errorf("base profile cannot be nil")
	}

	current := clone(base)
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}
	return current, nil
}

// clone copies a profile. Pointer fields are shared; transforms replace them
// rather than write through them.
func clone(p *domain.FiscalProfile) *domain.FiscalProfile {
	c := *p
	return &c
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
