package delaunay

import (
	"github.com/golang/geo/r3"

	"github.com/hupe1980/tetgo/internal/arena"
	"github.com/hupe1980/tetgo/internal/predicates"
	"github.com/hupe1980/tetgo/model"
)

// conflictZone is the set of cells a new vertex invalidates, plus one facet
// on its boundary to start the stellation from.
type conflictZone struct {
	cells      arena.List
	bndry      model.CellID
	bndryFacet int
}

// findConflictZone collects the cells in conflict with vertex v, starting at
// the located cell. An empty zone means v is skipped: it duplicates an
// existing vertex or, in weighted mode, it is hidden.
func (tr *Triangulation) findConflictZone(v model.VertexID, loc Location) conflictZone {
	c := tr.cells
	z := conflictZone{cells: arena.NewList(), bndry: model.NoCell, bndryFacet: -1}

	c.NewStamp()

	t := loc.Cell
	nZero := 0
	for _, s := range loc.Orient {
		if s == predicates.Zero {
			nZero++
		}
	}

	// Three vanishing facets pin the point onto a vertex of t.
	if nZero >= 3 {
		return z
	}

	if tr.Weighted() && !tr.inConflict(t, v, true) {
		return z
	}

	stack := tr.stack[:0]
	c.Push(&z.cells, t)
	stack = append(stack, t)

	// On a facet or an edge, the cells sharing it are in conflict too.
	if !tr.Weighted() && nZero > 0 {
		for f, s := range loc.Orient {
			if s != predicates.Zero {
				continue
			}
			t2 := c.Adjacent(t, f)
			if t2 == model.NoCell || c.InList(t2) {
				continue
			}
			c.Push(&z.cells, t2)
			stack = append(stack, t2)
		}
	}

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for lf := 0; lf < 4; lf++ {
			t2 := c.Adjacent(t, lf)
			if c.InList(t2) || c.IsMarked(t2) {
				continue
			}
			if tr.inConflict(t2, v, true) {
				c.Push(&z.cells, t2)
				stack = append(stack, t2)
				continue
			}
			z.bndry, z.bndryFacet = t, lf
			c.Mark(t2)
		}
	}

	tr.stack = stack[:0]
	return z
}

// inConflict reports whether vertex v violates cell t.
//
// For a virtual cell, v conflicts when it sees the hull facet from outside.
// When v lies on the facet plane the answer is the one of the finite cell
// behind the facet. While a zone is growing, that cell's list membership or
// mark is reused instead of evaluating it again.
func (tr *Triangulation) inConflict(t model.CellID, v model.VertexID, growing bool) bool {
	c := tr.cells
	verts := c.Vertices(t)

	inf := -1
	for lv, w := range verts {
		if w == model.Infinite {
			inf = lv
			break
		}
	}

	if inf < 0 {
		s := predicates.InSphere(tr.site(verts[0]), tr.site(verts[1]), tr.site(verts[2]), tr.site(verts[3]), tr.site(v))
		return s == predicates.Positive
	}

	p := tr.points[v]
	var pv [4]r3.Vector
	for lv, w := range verts {
		if lv == inf {
			pv[lv] = p
		} else {
			pv[lv] = tr.points[w]
		}
	}

	switch predicates.Orient3D(pv[0], pv[1], pv[2], pv[3]) {
	case predicates.Positive:
		return true
	case predicates.Negative:
		return false
	}

	t2 := c.Adjacent(t, inf)
	if growing {
		if c.InList(t2) {
			return true
		}
		if c.IsMarked(t2) {
			return false
		}
	}
	return tr.inConflict(t2, v, growing)
}
