// Package model defines the identity types and the compacted mesh shared by
// the tessellation engine, the codec and callers.
//
// # Identity Types
//
//   - VertexID: index into the caller-owned point array (int32)
//   - CellID: index of a tetrahedron in the cell arena or in a Mesh (int32)
//
// Both use -1 as a reserved value: Infinite is the vertex at infinity that
// closes the hull combinatorially, NoCell is a missing neighbor.
//
// # Mesh
//
// A Mesh is the dense output of a finished tessellation:
//
//	for c := 0; c < m.NumCells(); c++ {
//	    v := m.Cell(model.CellID(c))
//	    fmt.Println(v[0], v[1], v[2], v[3], m.IsFinite(model.CellID(c)))
//	}
package model
