package tetgo

import (
	"github.com/hupe1980/tetgo/internal/delaunay"
	"github.com/hupe1980/tetgo/internal/predicates"
	"github.com/hupe1980/tetgo/model"
)

type (
	// VertexID is the index of an input point.
	VertexID = model.VertexID
	// CellID is the index of a tetrahedron.
	CellID = model.CellID
	// Mesh is the dense cell and neighbor arrays of a finished tessellation.
	Mesh = model.Mesh
	// Sign is the outcome of an orientation test.
	Sign = predicates.Sign
	// Location is the result of a point location query.
	Location = delaunay.Location
	// State is the lifecycle stage of a tessellation.
	State = delaunay.State
	// Stats summarizes the cell structure.
	Stats = delaunay.Stats
)

const (
	// Infinite is the vertex at infinity.
	Infinite = model.Infinite
	// NoCell marks a missing cell.
	NoCell = model.NoCell
)

const (
	Negative = predicates.Negative
	Zero     = predicates.Zero
	Positive = predicates.Positive
)

const (
	StateEmpty     = delaunay.StateEmpty
	StateSeeded    = delaunay.StateSeeded
	StateBuilt     = delaunay.StateBuilt
	StateCompacted = delaunay.StateCompacted
)
