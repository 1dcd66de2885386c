package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/golang/geo/r3"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// UniformPoints generates points uniformly distributed in [0, 1)³.
func (r *RNG) UniformPoints(num int) []r3.Vector {
	return r.UniformRangePoints(num, 0, 1)
}

// UniformRangePoints generates points uniformly distributed in [minVal, maxVal)³.
func (r *RNG) UniformRangePoints(num int, minVal, maxVal float64) []r3.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	pts := make([]r3.Vector, num)
	for i := range pts {
		pts[i] = r3.Vector{
			X: minVal + r.rand.Float64()*span,
			Y: minVal + r.rand.Float64()*span,
			Z: minVal + r.rand.Float64()*span,
		}
	}
	return pts
}

// GaussianPoints generates points with standard normal coordinates.
func (r *RNG) GaussianPoints(num int) []r3.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	pts := make([]r3.Vector, num)
	for i := range pts {
		pts[i] = r3.Vector{X: r.rand.NormFloat64(), Y: r.rand.NormFloat64(), Z: r.rand.NormFloat64()}
	}
	return pts
}

// SpherePoints generates points on the unit sphere.
// Up to rounding, every point lies on the circumsphere of every tetrahedron.
func (r *RNG) SpherePoints(num int) []r3.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	pts := make([]r3.Vector, num)
	for i := range pts {
		var p r3.Vector
		for p.Norm2() == 0 {
			p = r3.Vector{X: r.rand.NormFloat64(), Y: r.rand.NormFloat64(), Z: r.rand.NormFloat64()}
		}
		pts[i] = p.Normalize()
	}
	return pts
}

// Lifts generates lift values in [0, maxVal) for weighted mode.
func (r *RNG) Lifts(num int, maxVal float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	lift := make([]float64, num)
	for i := range lift {
		lift[i] = r.rand.Float64() * maxVal
	}
	return lift
}

// Perm returns a random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Lattice returns the k×k×k integer grid. It is highly degenerate: it has
// many cospherical and coplanar subsets.
func Lattice(k int) []r3.Vector {
	pts := make([]r3.Vector, 0, k*k*k)
	for x := 0; x < k; x++ {
		for y := 0; y < k; y++ {
			for z := 0; z < k; z++ {
				pts = append(pts, r3.Vector{X: float64(x), Y: float64(y), Z: float64(z)})
			}
		}
	}
	return pts
}

// UnitTetrahedron returns the corners of the unit tetrahedron.
func UnitTetrahedron() []r3.Vector {
	return []r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
}

// NearestBrute returns the index of the point closest to q by linear scan.
// Ties resolve to the lowest index.
func NearestBrute(points []r3.Vector, q r3.Vector) int {
	best := -1
	bestD := math.Inf(1)
	for i, p := range points {
		if d := q.Sub(p).Norm2(); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// Flatten returns the coordinates of points as x, y, z triples, with the
// lift appended as a fourth coordinate when lift is not nil.
func Flatten(points []r3.Vector, lift []float64) []float64 {
	dim := 3
	if lift != nil {
		dim = 4
	}
	out := make([]float64, 0, dim*len(points))
	for i, p := range points {
		out = append(out, p.X, p.Y, p.Z)
		if lift != nil {
			out = append(out, lift[i])
		}
	}
	return out
}
