package delaunay

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/hupe1980/tetgo/internal/visited"
	"github.com/hupe1980/tetgo/model"
)

// NearestVertex returns the vertex closest to p, or model.Infinite when
// there are no points.
//
// In weighted mode "closest" is in the power distance |p-x|² - w and the
// search is a linear scan. Otherwise, after compaction, the search starts at
// the closest vertex of the cell containing p and walks the Delaunay graph
// greedily, which always ends at a nearest vertex.
func (tr *Triangulation) NearestVertex(p r3.Vector) model.VertexID {
	if len(tr.points) == 0 {
		return model.Infinite
	}
	if tr.Weighted() || tr.state != StateCompacted || tr.cells.Len() == 0 {
		return tr.nearestLinear(p)
	}

	start := model.Infinite
	loc := tr.Locate(p, model.NoCell, true)
	if loc.Found() && !tr.cells.IsVirtual(loc.Cell) {
		best := math.Inf(1)
		for _, v := range tr.cells.Vertices(loc.Cell) {
			if d := p.Sub(tr.points[v]).Norm2(); d < best {
				start, best = v, d
			}
		}
	} else {
		// Outside the hull: any finite vertex will do.
		for _, v := range tr.cells.Vertices(0) {
			if v >= 0 {
				start = v
				break
			}
		}
	}

	return tr.greedyNearest(p, start)
}

func (tr *Triangulation) nearestLinear(p r3.Vector) model.VertexID {
	best := model.Infinite
	bestD := math.Inf(1)
	for i, x := range tr.points {
		var d float64
		if tr.Weighted() {
			// |p-x|² - w differs from h - 2p·x by |p|² only.
			d = tr.Height(model.VertexID(i)) - 2*p.Dot(x)
		} else {
			d = p.Sub(x).Norm2()
		}
		if d < bestD {
			best, bestD = model.VertexID(i), d
		}
	}
	return best
}

func (tr *Triangulation) greedyNearest(p r3.Vector, u model.VertexID) model.VertexID {
	seen := tr.visitedPool.Get().(*visited.Set)
	defer tr.visitedPool.Put(seen)

	best := p.Sub(tr.points[u]).Norm2()
	for {
		w, d := tr.closestNeighbor(p, u, seen)
		seen.Reset()
		if w == model.Infinite || d >= best {
			return u
		}
		u, best = w, d
	}
}

// closestNeighbor scans the cells around u and returns the vertex adjacent
// to u that is closest to p.
func (tr *Triangulation) closestNeighbor(p r3.Vector, u model.VertexID, seen *visited.Set) (model.VertexID, float64) {
	c := tr.cells
	best := model.Infinite
	bestD := math.Inf(1)

	start := tr.vertexCell[u]
	if start == model.NoCell {
		return best, bestD
	}

	stack := []model.CellID{start}
	seen.Visit(start)
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		lu := c.FindVertex(t, u)
		for lf := 0; lf < 4; lf++ {
			if lf == lu {
				continue
			}
			if w := c.Vertex(t, lf); w >= 0 {
				if d := p.Sub(tr.points[w]).Norm2(); d < bestD {
					best, bestD = w, d
				}
			}
			// Facet lf contains u since lf != lu.
			if t2 := c.Adjacent(t, lf); t2 != model.NoCell && seen.Visit(t2) {
				stack = append(stack, t2)
			}
		}
	}
	return best, bestD
}
