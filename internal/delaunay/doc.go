// Package delaunay implements incremental 3D Delaunay and regular
// tessellation using the Bowyer-Watson scheme.
//
// Each new point is located by a randomized visibility walk, its conflict
// zone (the cells whose circumsphere, or lifted hyperplane, it violates) is
// collected by a flood fill, and the zone is replaced by a star of new cells
// joining the point to the zone boundary.
//
// # Features
//
//   - Exact, filtered predicates with symbolic perturbation
//   - Virtual cells joining each hull facet to the vertex at infinity
//   - Lock-free RNG (xorshift64*) for walk randomization
//   - Weighted (regular) mode with hidden vertices
//   - Compaction with optional retention of the infinite shell
//
// # Lifecycle
//
//	Empty -> Seeded -> Built -> Compacted
//
// Build seeds the first tetrahedron and inserts the remaining points in the
// supplied order. Compact renumbers the cells densely. Queries (Locate,
// NearestVertex) are safe for concurrent use once the build has finished.
//
// # Reference
//
// Bowyer, "Computing Dirichlet tessellations", The Computer Journal 1981.
// Watson, "Computing the n-dimensional Delaunay tessellation with
// application to Voronoi polytopes", The Computer Journal 1981.
package delaunay
