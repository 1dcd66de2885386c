package model

import (
	"errors"
	"fmt"
)

// VertexID is the index of an input point.
type VertexID int32

// CellID is the index of a tetrahedron.
// It is transient and changes during compaction.
type CellID int32

const (
	// Infinite is the vertex at infinity. A cell holding it is virtual.
	Infinite VertexID = -1

	// NoCell marks a missing neighbor: a hull facet once the infinite
	// shell has been discarded, or a link not yet wired during construction.
	NoCell CellID = -1
)

// IsInfinite reports whether v is the vertex at infinity.
func (v VertexID) IsInfinite() bool { return v < 0 }

// Valid reports whether c refers to a cell.
func (c CellID) Valid() bool { return c >= 0 }

// String returns a string representation of the cell id.
func (c CellID) String() string {
	if c < 0 {
		return "Cell(none)"
	}
	return fmt.Sprintf("Cell(%d)", int32(c))
}

// ErrInvalidMesh is returned when a Mesh fails structural validation.
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh is a compacted tetrahedralization.
//
// Vertices and Neighbors hold four entries per cell. Neighbors[4*c+f] is the
// cell across the facet of c opposite to Vertices[4*c+f].
type Mesh struct {
	// NumPoints is the number of input points the vertex ids refer to.
	NumPoints int
	// Vertices holds 4 vertex ids per cell, -1 for the vertex at infinity.
	Vertices []int32
	// Neighbors holds 4 cell ids per cell, -1 for no neighbor.
	Neighbors []int32
	// NumFinite is the number of finite cells. Finite cells come first.
	NumFinite int
	// KeepInfinite is true when the virtual cells were retained.
	KeepInfinite bool
}

// NumCells returns the number of cells.
func (m *Mesh) NumCells() int { return len(m.Vertices) / 4 }

// Cell returns the four vertices of cell c.
func (m *Mesh) Cell(c CellID) [4]VertexID {
	i := 4 * int(c)
	return [4]VertexID{
		VertexID(m.Vertices[i]),
		VertexID(m.Vertices[i+1]),
		VertexID(m.Vertices[i+2]),
		VertexID(m.Vertices[i+3]),
	}
}

// Adjacent returns the neighbor of c across its facet f.
func (m *Mesh) Adjacent(c CellID, f int) CellID {
	return CellID(m.Neighbors[4*int(c)+f])
}

// IsFinite reports whether c has no vertex at infinity.
func (m *Mesh) IsFinite(c CellID) bool {
	i := 4 * int(c)
	for _, v := range m.Vertices[i : i+4] {
		if v < 0 {
			return false
		}
	}
	return true
}

// Validate checks array lengths and index ranges.
// It does not check geometry.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%4 != 0 {
		return fmt.Errorf("%w: %d vertex slots is not a multiple of 4", ErrInvalidMesh, len(m.Vertices))
	}
	if len(m.Neighbors) != len(m.Vertices) {
		return fmt.Errorf("%w: %d neighbor slots for %d vertex slots", ErrInvalidMesh, len(m.Neighbors), len(m.Vertices))
	}
	n := m.NumCells()
	if m.NumFinite < 0 || m.NumFinite > n {
		return fmt.Errorf("%w: finite count %d out of range [0,%d]", ErrInvalidMesh, m.NumFinite, n)
	}
	for i, v := range m.Vertices {
		if v < -1 || int(v) >= m.NumPoints {
			return fmt.Errorf("%w: cell %d references vertex %d", ErrInvalidMesh, i/4, v)
		}
	}
	for i, c := range m.Neighbors {
		if c < -1 || int(c) >= n {
			return fmt.Errorf("%w: cell %d references neighbor %d", ErrInvalidMesh, i/4, c)
		}
	}
	for c := 0; c < n; c++ {
		if m.IsFinite(CellID(c)) != (c < m.NumFinite) {
			return fmt.Errorf("%w: cell %d is on the wrong side of the finite/infinite split", ErrInvalidMesh, c)
		}
	}
	return nil
}
