package tetgo

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/hupe1980/tetgo/internal/delaunay"
)

var (
	// ErrDegenerate is returned when the points are all coplanar, collinear
	// or identical. The tessellation then has no cells.
	ErrDegenerate = delaunay.ErrDegenerate
	// ErrCanceled is returned when the progress callback stops a build.
	ErrCanceled = delaunay.ErrCanceled
	// ErrInvalidInput is returned for non-finite coordinates or mismatched
	// weight counts.
	ErrInvalidInput = delaunay.ErrInvalidInput
	// ErrInvalidOrder is returned when an ordering function does not return
	// a permutation of the point indices.
	ErrInvalidOrder = delaunay.ErrInvalidOrder
	// ErrNotBuilt is returned when the tessellation has not been built.
	ErrNotBuilt = errors.New("tessellation not built")
	// ErrAlreadyBuilt is returned when Build is called twice.
	ErrAlreadyBuilt = errors.New("tessellation already built")
)

// ErrInvalidDimension indicates an unsupported number of coordinates per point.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDimension struct {
	Dimension int
	cause     error
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d (want 3 or 4)", e.Dimension)
}

func (e *ErrInvalidDimension) Unwrap() error { return e.cause }

// ErrInvariantViolation is returned by Validate when the cell structure is
// broken. Violations holds every problem found, each a *Violation.
type ErrInvariantViolation struct {
	Violations []error
	cause      error
}

func (e *ErrInvariantViolation) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invariant violation: %v", e.Violations[0])
	}
	return fmt.Sprintf("%d invariant violations, first: %v", len(e.Violations), e.Violations[0])
}

func (e *ErrInvariantViolation) Unwrap() error { return e.cause }

// Violation describes one broken invariant.
type Violation = delaunay.Violation

func newInvariantViolation(err error) error {
	if err == nil {
		return nil
	}
	var v *Violation
	if !errors.As(err, &v) {
		// Context errors from the parallel geometry check.
		return err
	}
	return &ErrInvariantViolation{Violations: multierr.Errors(err), cause: err}
}
