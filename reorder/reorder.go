// Package reorder computes insertion orders for the tessellation.
//
// Inserting spatially coherent points one after another keeps the location
// walks short. BRIO (biased randomized insertion order) adds rounds of
// growing size on top of a space-filling curve order, which keeps the
// expected cost of randomized incremental construction while preserving
// locality inside each round.
//
//	order := reorder.BRIO(seed)(points)
package reorder

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/golang/geo/r3"
)

const (
	// brioThreshold is the size below which no further round is split off.
	brioThreshold = 64
	// brioRatio is the size of a round relative to the next one.
	brioRatio = 0.125

	mortonBits = 21
)

// Func computes a permutation of the point indices.
type Func func(points []r3.Vector) []int

// Identity returns the points in input order.
func Identity(points []r3.Vector) []int {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	return order
}

// Morton sorts the points along a Z-order curve over their bounding box.
func Morton(points []r3.Vector) []int {
	order := Identity(points)
	sortMorton(mortonKeys(points), order)
	return order
}

// BRIO returns a biased randomized insertion order, seeded for
// reproducibility.
func BRIO(seed uint64) Func {
	return func(points []r3.Vector) []int {
		n := len(points)
		order := Identity(points)

		rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

		bounds := []int{n}
		for m := n; m > brioThreshold; {
			m = int(float64(m) * brioRatio)
			bounds = append(bounds, m)
		}
		bounds = append(bounds, 0)
		slices.Reverse(bounds)

		keys := mortonKeys(points)
		for i := 0; i+1 < len(bounds); i++ {
			sortMorton(keys, order[bounds[i]:bounds[i+1]])
		}
		return order
	}
}

func sortMorton(keys []uint64, order []int) {
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(keys[a], keys[b])
	})
}

// mortonKeys quantizes each point to 21 bits per axis and interleaves them.
func mortonKeys(points []r3.Vector) []uint64 {
	keys := make([]uint64, len(points))
	if len(points) == 0 {
		return keys
	}

	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = r3.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}

	extent := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z))
	scale := 0.0
	if extent > 0 {
		scale = float64(uint64(1)<<mortonBits-1) / extent
	}

	quantize := func(v float64) uint64 {
		return uint64(math.Min(v*scale, float64(uint64(1)<<mortonBits-1)))
	}

	for i, p := range points {
		d := p.Sub(lo)
		keys[i] = spread(quantize(d.X)) | spread(quantize(d.Y))<<1 | spread(quantize(d.Z))<<2
	}
	return keys
}

// spread inserts two zero bits between each of the low 21 bits of v.
func spread(v uint64) uint64 {
	v &= 0x1fffff
	v = (v | v<<32) & 0x1f00000000ffff
	v = (v | v<<16) & 0x1f0000ff0000ff
	v = (v | v<<8) & 0x100f00f00f00f00f
	v = (v | v<<4) & 0x10c30c30c30c30c3
	v = (v | v<<2) & 0x1249249249249249
	return v
}
