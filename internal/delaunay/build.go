package delaunay

import (
	"context"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/tetgo/model"
)

// ctxCheckInterval is the number of insertions between context checks.
const ctxCheckInterval = 256

// ProgressFunc is called before each insertion with the position in the
// insertion order and the total. Returning false cancels the build.
type ProgressFunc func(i, n int) bool

// Build seeds the first tetrahedron and inserts all remaining points in the
// given order, which must be a permutation of the point indices.
//
// On cancellation the triangulation stays valid for the points inserted so
// far, but it cannot be built again.
func (tr *Triangulation) Build(ctx context.Context, order []int, progress ProgressFunc) error {
	if tr.state != StateEmpty {
		return fmt.Errorf("%w: build in state %s", ErrInvalidState, tr.state)
	}
	if err := validateOrder(order, len(tr.points)); err != nil {
		return err
	}

	if !tr.seed(order) {
		return ErrDegenerate
	}
	tr.state = StateSeeded
	tr.inserted = 4

	n := len(order)
	hint := model.NoCell
	for i, idx := range order {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		v := model.VertexID(idx)
		if tr.isFirst(v) {
			continue
		}
		if progress != nil && !progress(i, n) {
			return ErrCanceled
		}

		t, err := tr.insert(v, hint)
		if err != nil {
			return err
		}
		if t == model.NoCell {
			tr.skipped++
			continue
		}
		tr.inserted++
		hint = t
	}

	tr.state = StateBuilt
	return nil
}

func validateOrder(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: %d entries for %d points", ErrInvalidOrder, len(order), n)
	}
	seen := roaring.New()
	for _, i := range order {
		if i < 0 || i >= n || !seen.CheckedAdd(uint32(i)) {
			return fmt.Errorf("%w: bad or repeated index %d", ErrInvalidOrder, i)
		}
	}
	return nil
}

// Compact drops free cells, and the virtual cells unless KeepInfinite is
// set, and renumbers the remaining cells densely with finite cells first.
// It returns the number of dropped cell slots.
func (tr *Triangulation) Compact() (int, error) {
	if tr.state != StateBuilt {
		return 0, fmt.Errorf("%w: compact in state %s", ErrInvalidState, tr.state)
	}

	numFinite, removed := tr.cells.Compact(tr.opts.KeepInfinite)
	tr.numFinite = numFinite
	tr.indexVertices()
	tr.state = StateCompacted
	return removed, nil
}

// indexVertices records one incident cell per vertex, preferring finite ones.
func (tr *Triangulation) indexVertices() {
	tr.vertexCell = make([]model.CellID, len(tr.points))
	for i := range tr.vertexCell {
		tr.vertexCell[i] = model.NoCell
	}

	c := tr.cells
	for t := 0; t < c.Len(); t++ {
		for _, v := range c.Vertices(model.CellID(t)) {
			if v >= 0 && tr.vertexCell[v] == model.NoCell {
				tr.vertexCell[v] = model.CellID(t)
			}
		}
	}
}

// ReferencedVertices returns the set of vertices used by at least one cell.
func (tr *Triangulation) ReferencedVertices() *roaring.Bitmap {
	c := tr.cells
	bm := roaring.New()
	for t := 0; t < c.Len(); t++ {
		ct := model.CellID(t)
		if c.IsFree(ct) {
			continue
		}
		for _, v := range c.Vertices(ct) {
			if v >= 0 {
				bm.Add(uint32(v))
			}
		}
	}
	return bm
}

// Mesh returns a copy of the compacted cell arrays.
func (tr *Triangulation) Mesh() (*model.Mesh, error) {
	if tr.state != StateCompacted {
		return nil, fmt.Errorf("%w: mesh in state %s", ErrInvalidState, tr.state)
	}

	verts, adj := tr.cells.Raw()
	return &model.Mesh{
		NumPoints:    len(tr.points),
		Vertices:     slices.Clone(verts),
		Neighbors:    slices.Clone(adj),
		NumFinite:    tr.numFinite,
		KeepInfinite: tr.opts.KeepInfinite,
	}, nil
}
