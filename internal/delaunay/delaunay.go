package delaunay

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/golang/geo/r3"

	"github.com/hupe1980/tetgo/internal/arena"
	"github.com/hupe1980/tetgo/internal/conv"
	"github.com/hupe1980/tetgo/internal/predicates"
	"github.com/hupe1980/tetgo/internal/visited"
	"github.com/hupe1980/tetgo/model"
)

const (
	// DefaultMaxInexactSteps bounds the floating-point pre-walk of Locate.
	DefaultMaxInexactSteps = 2500

	// DefaultRandomSeed makes builds reproducible unless a seed is given.
	DefaultRandomSeed = 0x2545F4914F6CDD1D

	// rngIncrement is the golden ratio increment of the seed sequence.
	rngIncrement  = 0x9E3779B97F4A7C15
	rngMultiplier = 0x2545F4914F6CDD1D
)

// Options represents the options for configuring a Triangulation.
type Options struct {
	// KeepInfinite retains the virtual cells on compaction.
	KeepInfinite bool
	// RandomSeed seeds the walk randomization.
	RandomSeed uint64
	// MaxInexactSteps bounds the inexact pre-walk. Zero disables it.
	MaxInexactSteps int
}

// DefaultOptions contains the default options for a Triangulation.
var DefaultOptions = Options{
	KeepInfinite:    false,
	RandomSeed:      DefaultRandomSeed,
	MaxInexactSteps: DefaultMaxInexactSteps,
}

// State is the lifecycle stage of a Triangulation.
type State uint8

const (
	StateEmpty State = iota
	StateSeeded
	StateBuilt
	StateCompacted
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSeeded:
		return "seeded"
	case StateBuilt:
		return "built"
	case StateCompacted:
		return "compacted"
	default:
		return "unknown"
	}
}

// Location is the result of a point location query.
type Location struct {
	// Cell contains the point, is a virtual cell whose hull facet sees the
	// point, or is model.NoCell when the point is outside a discarded shell.
	Cell model.CellID
	// Orient holds, per facet, the orientation of the cell with that
	// facet's opposite vertex replaced by the point.
	Orient [4]predicates.Sign
	// Steps is the number of cells the exact walk moved through.
	Steps int
}

// Found reports whether the point lies in a finite cell.
func (l Location) Found() bool { return l.Cell != model.NoCell }

// Triangulation is an incremental Delaunay (or regular) tessellation of a
// caller-owned point array.
type Triangulation struct {
	points  []r3.Vector
	lift    []float64
	heights []float64

	cells   *arena.Cells
	rngSeed atomic.Uint64 // Lock-free RNG seed
	opts    Options
	state   State

	first     [4]model.VertexID
	numFinite int
	inserted  int
	skipped   int

	// Scratch for the conflict flood fill.
	stack []model.CellID

	// vertexCell maps each vertex to one incident cell after compaction.
	vertexCell  []model.CellID
	visitedPool sync.Pool
}

// New creates a Triangulation over points. A non-nil lift switches to
// weighted mode: the lifted height of point i is |points[i]|² + lift[i]².
// The slices are retained and must not be modified while in use.
func New(points []r3.Vector, lift []float64, optFns ...func(o *Options)) (*Triangulation, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxInexactSteps < 0 {
		opts.MaxInexactSteps = 0
	}

	if _, err := conv.IntToInt32(len(points)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if lift != nil && len(lift) != len(points) {
		return nil, fmt.Errorf("%w: %d lift values for %d points", ErrInvalidInput, len(lift), len(points))
	}

	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return nil, fmt.Errorf("%w: point %d is not finite", ErrInvalidInput, i)
		}
		if lift != nil && !finite(lift[i]) {
			return nil, fmt.Errorf("%w: lift of point %d is not finite", ErrInvalidInput, i)
		}
	}

	tr := &Triangulation{
		points: points,
		lift:   lift,
		cells:  arena.New(7 * len(points)),
		opts:   opts,
		first:  [4]model.VertexID{model.Infinite, model.Infinite, model.Infinite, model.Infinite},
	}
	tr.rngSeed.Store(opts.RandomSeed)
	tr.visitedPool = sync.Pool{
		New: func() any { return visited.New(64) },
	}

	if lift != nil {
		tr.heights = make([]float64, len(points))
		for i, p := range points {
			tr.heights[i] = p.Norm2() + lift[i]*lift[i]
		}
	}

	return tr, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// State returns the lifecycle stage.
func (tr *Triangulation) State() State { return tr.state }

// Weighted reports whether the tessellation is regular rather than Delaunay.
func (tr *Triangulation) Weighted() bool { return tr.lift != nil }

// NumPoints returns the number of input points.
func (tr *Triangulation) NumPoints() int { return len(tr.points) }

// Point returns the coordinates of vertex v.
func (tr *Triangulation) Point(v model.VertexID) r3.Vector { return tr.points[v] }

// Height returns the lifted height of vertex v.
func (tr *Triangulation) Height(v model.VertexID) float64 {
	if tr.heights != nil {
		return tr.heights[v]
	}
	return tr.points[v].Norm2()
}

// FirstTetrahedron returns the vertices of the seed tetrahedron.
func (tr *Triangulation) FirstTetrahedron() [4]model.VertexID { return tr.first }

// Cells exposes the cell store. It must not be mutated by the caller.
func (tr *Triangulation) Cells() *arena.Cells { return tr.cells }

// NumFiniteCells returns the number of finite cells after compaction.
func (tr *Triangulation) NumFiniteCells() int { return tr.numFinite }

// nextRand draws from the shared xorshift64* sequence.
func (tr *Triangulation) nextRand() uint64 {
	seed := tr.rngSeed.Add(rngIncrement)
	return mix(seed)
}

func mix(seed uint64) uint64 {
	seed ^= seed >> 12
	seed ^= seed << 25
	seed ^= seed >> 27
	return seed * rngMultiplier
}

// localRand is an unshared xorshift64* stream.
type localRand struct{ state uint64 }

func (r *localRand) next() uint64 {
	r.state += rngIncrement
	return mix(r.state)
}

func (tr *Triangulation) site(v model.VertexID) predicates.Site {
	s := predicates.Site{P: tr.points[v], ID: int32(v)}
	if tr.lift != nil {
		s.T = tr.lift[v]
	}
	return s
}

// cellPoints returns the coordinates of a finite cell.
func (tr *Triangulation) cellPoints(t model.CellID) [4]r3.Vector {
	v := tr.cells.Vertices(t)
	return [4]r3.Vector{tr.points[v[0]], tr.points[v[1]], tr.points[v[2]], tr.points[v[3]]}
}

func (tr *Triangulation) isFirst(v model.VertexID) bool {
	return v == tr.first[0] || v == tr.first[1] || v == tr.first[2] || v == tr.first[3]
}
