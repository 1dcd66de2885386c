// Package arena provides the cell store of the tessellation engine.
//
// Cells live in three parallel flat arrays indexed by model.CellID:
//
//   - 4 vertex ids per cell (model.Infinite for the vertex at infinity)
//   - 4 neighbor cell ids per cell (model.NoCell when unset)
//   - 1 link word per cell
//
// The link word is shared by three mutually exclusive roles:
//
//   - a "next" pointer while the cell sits in a linked list (the free list or
//     the current conflict zone), with the high bit clear
//   - the current stamp while the cell is marked as a visited non-conflicting
//     neighbor of the conflict zone
//   - notInList otherwise
//
// Removed cells are recycled through the free list, so the arrays only grow
// until compaction.
//
// # Local Indexing
//
// Facet f of a cell is opposite to its vertex f. The vertices of facet f,
// listed by FacetVertex, are ordered so that the facet normal points outward.
//
// # Concurrency
//
// Cells is not safe for concurrent mutation. Concurrent readers are allowed
// once construction is finished.
package arena
