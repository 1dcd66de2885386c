// Package tetgo computes 3D Delaunay and regular (weighted Delaunay)
// tessellations.
//
// Points are inserted incrementally with the Bowyer-Watson algorithm: each
// new point is located by a randomized walk, the cells whose circumsphere
// contains it are removed, and the cavity is refilled with a star of cells
// around the new vertex. All geometric decisions use exact predicates with
// symbolic perturbation, so the result is valid for degenerate input such as
// lattices or cospherical points.
//
// # Quick Start
//
//	t, _ := tetgo.New(points)
//	if err := t.Build(ctx); err != nil {
//	    // tetgo.ErrDegenerate: all points coplanar
//	}
//	for c := 0; c < t.NumFiniteCells(); c++ {
//	    fmt.Println(t.Cell(tetgo.CellID(c)))
//	}
//
// # Regular Tessellations
//
// With weights the tessellation is the dual of the power diagram. Points
// whose power cell is empty are hidden and appear in no cell:
//
//	t, _ := tetgo.New(points, tetgo.WithWeights(w))
//
// Flat coordinate arrays are accepted as well. With 4 coordinates per point
// the last is the lift t, and the lifted height is x²+y²+z²+t²:
//
//	t, _ := tetgo.NewFromCoords(4, coords)
//
// # Cells
//
// After Build the cells are numbered densely with finite cells first. Cell c
// has four vertices and four neighbors; neighbor f is across the facet
// opposite vertex f. Missing neighbors on the hull are NoCell unless
// WithKeepInfinite retains the cells incident to the vertex at infinity.
//
// # Point Location
//
// Locate and LocateAll are safe for concurrent use after Build:
//
//	loc := t.Locate(p, tetgo.NoCell)
//	if loc.Found() && t.IsFinite(loc.Cell) {
//	    // p lies in loc.Cell
//	}
//
// # Persistence
//
// Encode writes the mesh with optional LZ4 or ZSTD compression, see the
// codec package.
package tetgo
