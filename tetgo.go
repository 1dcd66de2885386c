package tetgo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tetgo/codec"
	"github.com/hupe1980/tetgo/internal/delaunay"
	"github.com/hupe1980/tetgo/model"
)

// locateChunk is the number of queries a LocateAll worker handles at once.
const locateChunk = 256

// Tessellation is a Delaunay or regular tessellation of a fixed point set.
//
// Build must be called once and must not run concurrently with other
// methods. Afterwards all methods are safe for concurrent use.
type Tessellation struct {
	points []r3.Vector
	tr     *delaunay.Triangulation
	opts   options
	mesh   *model.Mesh
}

// New creates a Tessellation over points. The slice is retained and must not
// be modified while the Tessellation is in use.
func New(points []r3.Vector, optFns ...Option) (*Tessellation, error) {
	o := applyOptions(optFns)

	lift := o.lift
	if o.weights != nil {
		if lift != nil {
			return nil, fmt.Errorf("%w: weights given twice", ErrInvalidInput)
		}
		var err error
		if lift, err = liftWeights(o.weights, len(points)); err != nil {
			return nil, err
		}
	}

	tr, err := delaunay.New(points, lift, func(do *delaunay.Options) {
		do.KeepInfinite = o.keepInfinite
		do.RandomSeed = o.seed
	})
	if err != nil {
		return nil, err
	}

	return &Tessellation{
		points: points,
		tr:     tr,
		opts:   o,
	}, nil
}

// NewFromCoords creates a Tessellation from a flat coordinate array with dim
// coordinates per point. dim is 3, or 4 for a regular tessellation where the
// 4th coordinate t lifts the point to height x²+y²+z²+t².
func NewFromCoords(dim int, coords []float64, optFns ...Option) (*Tessellation, error) {
	if dim != 3 && dim != 4 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}
	if len(coords)%dim != 0 {
		return nil, fmt.Errorf("%w: %d coordinates are not a multiple of %d", ErrInvalidInput, len(coords), dim)
	}

	n := len(coords) / dim
	points := make([]r3.Vector, n)
	var lift []float64
	if dim == 4 {
		lift = make([]float64, n)
	}
	for i := range points {
		c := coords[i*dim:]
		points[i] = r3.Vector{X: c[0], Y: c[1], Z: c[2]}
		if lift != nil {
			lift[i] = c[3]
		}
	}

	if lift != nil {
		optFns = append(slices.Clip(optFns), func(o *options) { o.lift = lift })
	}
	return New(points, optFns...)
}

// liftWeights turns power weights into lift values t with t² = W - w, where
// W is the largest weight.
func liftWeights(w []float64, n int) ([]float64, error) {
	if len(w) != n {
		return nil, fmt.Errorf("%w: %d weights for %d points", ErrInvalidInput, len(w), n)
	}

	maxW := math.Inf(-1)
	for i, x := range w {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: weight of point %d is not finite", ErrInvalidInput, i)
		}
		maxW = max(maxW, x)
	}

	lift := make([]float64, n)
	for i, x := range w {
		lift[i] = math.Sqrt(maxW - x)
	}
	return lift, nil
}

// Build tessellates the points. It returns ErrDegenerate, leaving an empty
// tessellation, when no four points span a tetrahedron.
//
// Cancellation through ctx or the progress callback leaves the tessellation
// unusable.
func (t *Tessellation) Build(ctx context.Context) error {
	if t.mesh != nil {
		return ErrAlreadyBuilt
	}
	if t.tr.State() != StateEmpty {
		return fmt.Errorf("%w: previous build was interrupted", ErrAlreadyBuilt)
	}

	start := time.Now()
	logger := t.opts.logger

	progress := func(i, n int) bool {
		logger.LogProgress(ctx, i, n)
		return t.opts.progress == nil || t.opts.progress(i, n)
	}

	err := t.tr.Build(ctx, t.opts.order(t.points), progress)
	if errors.Is(err, ErrDegenerate) {
		logger.LogDegenerate(ctx, len(t.points))
		t.mesh = &model.Mesh{NumPoints: len(t.points), KeepInfinite: t.opts.keepInfinite}
	}
	if err != nil {
		s := t.tr.Stats()
		duration := time.Since(start)
		t.opts.metricsCollector.RecordBuild(len(t.points), s.Inserted, s.Skipped, duration, err)
		logger.LogBuild(ctx, len(t.points), s.Inserted, s.Skipped, duration, err)
		return err
	}

	compactStart := time.Now()
	removed, err := t.tr.Compact()
	if err != nil {
		return err
	}
	t.opts.metricsCollector.RecordCompact(removed, time.Since(compactStart))

	if t.mesh, err = t.tr.Mesh(); err != nil {
		return err
	}
	logger.LogCompact(ctx, removed, t.mesh.NumCells(), t.mesh.NumFinite)

	s := t.tr.Stats()
	duration := time.Since(start)
	t.opts.metricsCollector.RecordBuild(len(t.points), s.Inserted, s.Skipped, duration, nil)
	logger.LogBuild(ctx, len(t.points), s.Inserted, s.Skipped, duration, nil)

	if t.opts.debugChecks {
		return t.Validate(ctx)
	}
	return nil
}

// Validate runs the self-checks: neighbor links are reciprocal, every cell
// has at most one vertex at infinity, every point is used (unless it is a
// duplicate or hidden) and no vertex lies inside the circumsphere of a cell.
// A broken structure is reported as *ErrInvariantViolation.
func (t *Tessellation) Validate(ctx context.Context) error {
	if t.mesh == nil {
		return ErrNotBuilt
	}
	if t.mesh.NumCells() == 0 {
		return nil
	}

	start := time.Now()
	if err := t.mesh.Validate(); err != nil {
		return err
	}

	geom := t.tr.CheckGeometry(ctx)
	if geom != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	err := newInvariantViolation(multierr.Append(t.tr.CheckCombinatorics(), geom))

	violations := 0
	var iv *ErrInvariantViolation
	if errors.As(err, &iv) {
		violations = len(iv.Violations)
	}
	t.opts.metricsCollector.RecordValidate(violations, time.Since(start))
	t.opts.logger.LogValidate(ctx, err)
	return err
}

// Locate returns the cell containing p. The walk starts at hint when it is a
// cell and at a random cell otherwise. Outside the hull the result is the
// virtual cell whose hull facet sees p if WithKeepInfinite is set, and a
// result with Cell == NoCell otherwise.
func (t *Tessellation) Locate(p r3.Vector, hint CellID) Location {
	if t.mesh == nil || t.mesh.NumCells() == 0 {
		return Location{Cell: NoCell}
	}

	start := time.Now()
	loc := t.tr.Locate(p, hint, true)
	t.opts.metricsCollector.RecordLocate(loc.Steps, loc.Found(), time.Since(start))
	return loc
}

// LocateAll locates all points in parallel. Consecutive points are located
// from the previous result, so spatially sorted queries are faster.
func (t *Tessellation) LocateAll(ctx context.Context, points []r3.Vector) ([]Location, error) {
	if t.mesh == nil {
		return nil, ErrNotBuilt
	}

	out := make([]Location, len(points))
	workers := runtime.GOMAXPROCS(0)
	chunk := max(locateChunk, (len(points)+workers-1)/workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(points); start += chunk {
		end := min(start+chunk, len(points))
		g.Go(func() error {
			hint := NoCell
			for i := start; i < end; i++ {
				if (i-start)%locateChunk == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = t.Locate(points[i], hint)
				if out[i].Found() {
					hint = out[i].Cell
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// NearestVertex returns the vertex closest to p, in power distance for a
// regular tessellation. It returns Infinite when there are no points.
func (t *Tessellation) NearestVertex(p r3.Vector) (VertexID, error) {
	if t.mesh == nil {
		return Infinite, ErrNotBuilt
	}
	return t.tr.NearestVertex(p), nil
}

// State returns the lifecycle stage.
func (t *Tessellation) State() State { return t.tr.State() }

// Stats returns statistics about the cell structure.
func (t *Tessellation) Stats() Stats { return t.tr.Stats() }

// NumPoints returns the number of input points.
func (t *Tessellation) NumPoints() int { return len(t.points) }

// Point returns the coordinates of vertex v.
func (t *Tessellation) Point(v VertexID) r3.Vector { return t.points[v] }

// FirstTetrahedron returns the vertices of the initial tetrahedron.
func (t *Tessellation) FirstTetrahedron() [4]VertexID { return t.tr.FirstTetrahedron() }

// NumCells returns the number of cells, including retained virtual cells.
func (t *Tessellation) NumCells() int {
	if t.mesh == nil {
		return 0
	}
	return t.mesh.NumCells()
}

// NumFiniteCells returns the number of finite cells. Finite cells are
// numbered 0 to NumFiniteCells()-1.
func (t *Tessellation) NumFiniteCells() int {
	if t.mesh == nil {
		return 0
	}
	return t.mesh.NumFinite
}

// Cell returns the four vertices of cell c.
func (t *Tessellation) Cell(c CellID) [4]VertexID { return t.mesh.Cell(c) }

// Adjacent returns the neighbor of c across the facet opposite its vertex f.
func (t *Tessellation) Adjacent(c CellID, f int) CellID { return t.mesh.Adjacent(c, f) }

// IsFinite reports whether c has no vertex at infinity.
func (t *Tessellation) IsFinite(c CellID) bool { return t.mesh.IsFinite(c) }

// Tetrahedra returns 4 vertex ids per cell. The slice must not be modified.
func (t *Tessellation) Tetrahedra() []int32 {
	if t.mesh == nil {
		return nil
	}
	return t.mesh.Vertices
}

// Neighbors returns 4 neighbor ids per cell. The slice must not be modified.
func (t *Tessellation) Neighbors() []int32 {
	if t.mesh == nil {
		return nil
	}
	return t.mesh.Neighbors
}

// Mesh returns a copy of the cell arrays.
func (t *Tessellation) Mesh() (*Mesh, error) {
	if t.mesh == nil {
		return nil, ErrNotBuilt
	}
	m := *t.mesh
	m.Vertices = slices.Clone(m.Vertices)
	m.Neighbors = slices.Clone(m.Neighbors)
	return &m, nil
}

// Vertices returns the set of points used by at least one cell. Duplicates
// and hidden points are missing.
func (t *Tessellation) Vertices() *roaring.Bitmap { return t.tr.ReferencedVertices() }

// Encode writes the mesh to w, see codec.Encode.
func (t *Tessellation) Encode(w io.Writer, c codec.Compression) error {
	if t.mesh == nil {
		return ErrNotBuilt
	}
	return codec.Encode(w, t.mesh, c)
}

// DebugString describes cell c and its links.
func (t *Tessellation) DebugString(c CellID) string { return t.tr.DebugString(c) }
