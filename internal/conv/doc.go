// Package conv provides checked integer conversions for the fixed-width
// counts and ids used in headers and cell arrays.
//
// For conversions that are provably safe by construction (loop indices over
// arrays already bounded by the id range), use direct type casts instead.
package conv
