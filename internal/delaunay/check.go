package delaunay

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tetgo/model"
)

// maxViolations bounds the number of violations collected per check.
const maxViolations = 64

// CheckCombinatorics verifies the cell structure: every neighbor link is
// present and reciprocal, no cell neighbors itself, no cell has more than one
// vertex at infinity, and, in unweighted mode, every point is used by a cell
// unless it duplicates a vertex. The result combines all violations found,
// see multierr.Errors.
func (tr *Triangulation) CheckCombinatorics() error {
	c := tr.cells
	shell := tr.state != StateCompacted || tr.opts.KeepInfinite

	var (
		errs  error
		count int
	)
	add := func(v *Violation) bool {
		errs = multierr.Append(errs, v)
		count++
		return count < maxViolations
	}

	referenced := roaring.New()
	for t := 0; t < c.Len(); t++ {
		ct := model.CellID(t)
		if c.IsFree(ct) {
			continue
		}

		numInf := 0
		for _, v := range c.Vertices(ct) {
			if v == model.Infinite {
				numInf++
			} else {
				referenced.Add(uint32(v))
			}
		}
		if numInf > 1 && !add(&Violation{Kind: MultipleInfinite, Cell: ct, Facet: -1}) {
			return errs
		}

		for lf := 0; lf < 4; lf++ {
			t2 := c.Adjacent(ct, lf)
			var kind ViolationKind
			switch {
			case t2 == model.NoCell:
				if !shell {
					continue
				}
				kind = MissingNeighbor
			case t2 == ct:
				kind = SelfAdjacent
			case c.IsFree(t2) || c.FindAdjacent(t2, ct) < 0:
				kind = NotReciprocal
			default:
				continue
			}
			if !add(&Violation{Kind: kind, Cell: ct, Facet: lf}) {
				return errs
			}
		}
	}

	if tr.Weighted() {
		// Hidden points are legitimately unused.
		return errs
	}

	isolated := roaring.New()
	isolated.AddRange(0, uint64(len(tr.points)))
	isolated.AndNot(referenced)

	it := isolated.Iterator()
	for it.HasNext() {
		v := model.VertexID(it.Next())
		if tr.coincidesWithVertex(v) {
			continue
		}
		if !add(&Violation{Kind: IsolatedVertex, Cell: model.NoCell, Facet: -1, Vertex: v}) {
			return errs
		}
	}
	return errs
}

// coincidesWithVertex reports whether the point of v is identical to a
// vertex of the cell containing it.
func (tr *Triangulation) coincidesWithVertex(v model.VertexID) bool {
	p := tr.points[v]
	loc := tr.Locate(p, model.NoCell, true)
	if !loc.Found() {
		return false
	}
	for _, w := range tr.cells.Vertices(loc.Cell) {
		if w >= 0 && w != v && tr.points[w] == p {
			return true
		}
	}
	return false
}

// CheckGeometry verifies the empty sphere property: no used vertex is in
// conflict with a cell it does not belong to. Cells are checked in parallel.
// It must not run concurrently with Build or Compact.
func (tr *Triangulation) CheckGeometry(ctx context.Context) error {
	c := tr.cells
	verts := tr.ReferencedVertices().ToArray()

	n := c.Len()
	workers := runtime.GOMAXPROCS(0)
	chunk := max(64, (n+4*workers-1)/(4*workers))
	results := make([]error, (n+chunk-1)/chunk)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range results {
		start := i * chunk
		end := min(start+chunk, n)
		g.Go(func() error {
			var (
				errs  error
				count int
			)
			for t := start; t < end; t++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ct := model.CellID(t)
				if c.IsFree(ct) {
					continue
				}
				for _, w := range verts {
					v := model.VertexID(w)
					if c.FindVertex(ct, v) >= 0 || !tr.inConflict(ct, v, false) {
						continue
					}
					errs = multierr.Append(errs, &Violation{Kind: EmptySphere, Cell: ct, Facet: -1, Vertex: v})
					if count++; count >= maxViolations {
						results[i] = errs
						return nil
					}
				}
			}
			results[i] = errs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return multierr.Combine(results...)
}

// DebugString describes cell t and its links.
func (tr *Triangulation) DebugString(t model.CellID) string {
	c := tr.cells
	if t < 0 || int(t) >= c.Len() {
		return fmt.Sprintf("cell %d: out of range", t)
	}

	kind := "finite"
	switch {
	case tr.state != StateCompacted && c.IsFree(t):
		kind = "free"
	case c.IsVirtual(t):
		kind = "virtual"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "cell %d (%s)", t, kind)
	for lf := 0; lf < 4; lf++ {
		v := c.Vertex(t, lf)
		if v == model.Infinite {
			fmt.Fprintf(&b, " [v=inf adj=%d]", c.Adjacent(t, lf))
			continue
		}
		fmt.Fprintf(&b, " [v=%d adj=%d]", v, c.Adjacent(t, lf))
	}
	return b.String()
}
