// Package testutil provides testing utilities for tetgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random and degenerate point sets and
// brute-force reference answers.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(1000)   // uniform in [0, 1)³
//	pts = rng.SpherePoints(1000)     // on the unit sphere (cospherical)
//	lift := rng.Lifts(1000, 0.1)     // lift values for weighted mode
//
// # Degenerate Sets
//
//	grid := testutil.Lattice(4)      // 4x4x4 integer grid
//
// # Ground Truth
//
//	v := testutil.NearestBrute(pts, q)
package testutil
