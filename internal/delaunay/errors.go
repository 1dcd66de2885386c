package delaunay

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tetgo/model"
)

var (
	// ErrDegenerate is returned when all points are coplanar, collinear or identical.
	ErrDegenerate = errors.New("degenerate point set: no non-flat tetrahedron")
	// ErrCanceled is returned when the progress callback asks to stop.
	ErrCanceled = errors.New("build canceled")
	// ErrInvalidState is returned when an operation does not fit the lifecycle.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidOrder is returned when the insertion order is not a permutation.
	ErrInvalidOrder = errors.New("insertion order is not a permutation of the points")
	// ErrInvalidInput is returned for malformed points or lift values.
	ErrInvalidInput = errors.New("invalid input")
)

// ViolationKind classifies a failed consistency check.
type ViolationKind uint8

const (
	MissingNeighbor ViolationKind = iota
	SelfAdjacent
	NotReciprocal
	MultipleInfinite
	IsolatedVertex
	EmptySphere
	BrokenZone
)

// String returns a string representation of the violation kind.
func (k ViolationKind) String() string {
	switch k {
	case MissingNeighbor:
		return "missing neighbor"
	case SelfAdjacent:
		return "self adjacent"
	case NotReciprocal:
		return "non reciprocal neighbor"
	case MultipleInfinite:
		return "multiple infinite vertices"
	case IsolatedVertex:
		return "isolated vertex"
	case EmptySphere:
		return "empty sphere violated"
	case BrokenZone:
		return "conflict zone without boundary"
	default:
		return "unknown"
	}
}

// Violation describes a broken invariant of the cell structure.
type Violation struct {
	Kind   ViolationKind
	Cell   model.CellID
	Facet  int
	Vertex model.VertexID
}

func (v *Violation) Error() string {
	switch v.Kind {
	case IsolatedVertex:
		return fmt.Sprintf("%s: vertex %d", v.Kind, v.Vertex)
	case EmptySphere:
		return fmt.Sprintf("%s: vertex %d conflicts with cell %d", v.Kind, v.Vertex, v.Cell)
	case BrokenZone:
		return fmt.Sprintf("%s: inserting vertex %d", v.Kind, v.Vertex)
	default:
		return fmt.Sprintf("%s: cell %d facet %d", v.Kind, v.Cell, v.Facet)
	}
}
