package delaunay

import (
	"github.com/golang/geo/r3"

	"github.com/hupe1980/tetgo/internal/arena"
	"github.com/hupe1980/tetgo/internal/predicates"
	"github.com/hupe1980/tetgo/model"
)

// Insert adds vertex v, starting the location walk at hint. It returns a
// new cell incident to v, usable as the next hint, or model.NoCell when v
// was skipped as a duplicate or a hidden weighted point.
func (tr *Triangulation) Insert(v model.VertexID, hint model.CellID) (model.CellID, error) {
	if tr.state != StateSeeded && tr.state != StateBuilt {
		return model.NoCell, ErrInvalidState
	}
	if v < 0 || int(v) >= len(tr.points) {
		return model.NoCell, ErrInvalidInput
	}
	return tr.insert(v, hint)
}

func (tr *Triangulation) insert(v model.VertexID, hint model.CellID) (model.CellID, error) {
	loc := tr.locate(tr.points[v], hint, tr.nextRand)
	if loc.Cell == model.NoCell {
		return model.NoCell, &Violation{Kind: BrokenZone, Cell: hint, Vertex: v}
	}

	z := tr.findConflictZone(v, loc)
	if z.cells.Empty() {
		return model.NoCell, nil
	}
	if z.bndry == model.NoCell {
		return model.NoCell, &Violation{Kind: BrokenZone, Cell: loc.Cell, Vertex: v}
	}

	t := tr.stellate(v, z.bndry, z.bndryFacet, -1)
	tr.cells.Release(z.cells)
	return t, nil
}

// stellate creates the new cell joining v to boundary facet f1 of zone cell
// t1, then creates and links the cells on the other facets of the new cell
// by turning around the boundary edges. prevF is the facet already linked
// by the caller, or -1.
func (tr *Triangulation) stellate(v model.VertexID, t1 model.CellID, f1, prevF int) model.CellID {
	c := tr.cells

	vs := c.Vertices(t1)
	newT := c.Create(vs[0], vs[1], vs[2], vs[3])
	c.SetVertex(newT, f1, v)

	t2 := c.Adjacent(t1, f1)
	c.SetAdjacent(newT, f1, t2)
	c.SetAdjacent(t2, c.FindAdjacent(t2, t1), newT)

	for newF := 0; newF < 4; newF++ {
		if newF == prevF || c.Adjacent(newT, newF) != model.NoCell {
			continue
		}

		// The border edge shared by facets f1 and newF.
		ev1 := c.Vertex(t1, arena.HalfedgeFacet(newF, f1))
		ev2 := c.Vertex(t1, arena.HalfedgeFacet(f1, newF))

		// Turn around the edge inside the zone until leaving it.
		curT, curF := t1, newF
		next := c.Adjacent(t1, newF)
		for c.InList(next) {
			curT = next
			curF = c.FacetByHalfedge(curT, ev1, ev2)
			next = c.Adjacent(curT, curF)
		}

		f12, f21 := c.FacetsByHalfedge(next, ev1, ev2)
		tNeigh := c.Adjacent(next, f21)
		vOpposite := c.Vertex(next, f12)
		vIndex := c.FindVertex(tNeigh, vOpposite)

		// The neighbor facet is still owned by the zone: stellate it first.
		if tNeigh == curT {
			tNeigh = tr.stellate(v, tNeigh, curF, vIndex)
		}

		c.SetAdjacent(tNeigh, vIndex, newT)
		c.SetAdjacent(newT, newF, tNeigh)
	}

	return newT
}

var unitPoints = [4]r3.Vector{
	{X: 0, Y: 0, Z: 0},
	{X: 0, Y: 0, Z: 1},
	{X: 0, Y: 1, Z: 0},
	{X: 1, Y: 0, Z: 0},
}

func collinear(a, b, c r3.Vector) bool {
	for _, q := range unitPoints {
		if predicates.Orient3D(a, b, c, q) != predicates.Zero {
			return false
		}
	}
	return true
}

// seed finds the first non-flat tetrahedron along order and surrounds it
// with four virtual cells. It reports false on degenerate input.
func (tr *Triangulation) seed(order []int) bool {
	n := len(order)
	if n < 4 {
		return false
	}
	pt := func(i int) r3.Vector { return tr.points[order[i]] }

	i0 := 0
	i1 := 1
	for ; i1 < n; i1++ {
		if pt(i1) != pt(i0) {
			break
		}
	}
	if i1 == n {
		return false
	}

	i2 := i1 + 1
	for ; i2 < n; i2++ {
		if !collinear(pt(i0), pt(i1), pt(i2)) {
			break
		}
	}
	if i2 == n {
		return false
	}

	i3 := i2 + 1
	var s predicates.Sign
	for ; i3 < n; i3++ {
		s = predicates.Orient3D(pt(i0), pt(i1), pt(i2), pt(i3))
		if s != predicates.Zero {
			break
		}
	}
	if i3 == n {
		return false
	}
	if s == predicates.Negative {
		i2, i3 = i3, i2
	}

	v := [4]model.VertexID{
		model.VertexID(order[i0]),
		model.VertexID(order[i1]),
		model.VertexID(order[i2]),
		model.VertexID(order[i3]),
	}
	tr.first = v

	c := tr.cells
	t0 := c.Create(v[0], v[1], v[2], v[3])

	// Virtual cell tf[f] closes facet f of t0 with the vertex at infinity,
	// listing the facet vertices in reverse to keep a positive orientation.
	var tf [4]model.CellID
	for f := 0; f < 4; f++ {
		tf[f] = c.Create(
			model.Infinite,
			v[arena.FacetVertex(f, 2)],
			v[arena.FacetVertex(f, 1)],
			v[arena.FacetVertex(f, 0)],
		)
	}

	for f := 0; f < 4; f++ {
		c.SetAdjacent(tf[f], 0, t0)
		c.SetAdjacent(t0, f, tf[f])

		// Facet k of tf[f] is opposite to the vertex of t0 it copied, so it
		// is shared with the virtual cell on that vertex's opposite facet.
		c.SetAdjacent(tf[f], 1, tf[arena.FacetVertex(f, 2)])
		c.SetAdjacent(tf[f], 2, tf[arena.FacetVertex(f, 1)])
		c.SetAdjacent(tf[f], 3, tf[arena.FacetVertex(f, 0)])
	}

	return true
}
