package arena

import (
	"math"

	"github.com/hupe1980/tetgo/model"
)

const (
	notInListBit uint32 = 1 << 31
	endOfList    uint32 = notInListBit - 1
	notInList    uint32 = math.MaxUint32

	// maxStampCounter keeps counter|notInListBit distinct from notInList.
	maxStampCounter = endOfList - 1
)

// halfedgeFacet[lv1][lv2] is the local facet incident to the oriented
// halfedge (lv1, lv2) that lies to its left.
var halfedgeFacet = [4][4]int8{
	{4, 2, 3, 1},
	{3, 4, 0, 2},
	{1, 3, 4, 0},
	{2, 0, 1, 4},
}

// facetVertex[f] lists the local vertices of facet f with outward orientation.
var facetVertex = [4][3]int8{
	{1, 2, 3},
	{0, 3, 2},
	{3, 0, 1},
	{1, 0, 2},
}

// FacetVertex returns the local index of the i-th vertex of facet f.
func FacetVertex(f, i int) int { return int(facetVertex[f][i]) }

// HalfedgeFacet returns the local facet to the left of halfedge (lv1, lv2).
func HalfedgeFacet(lv1, lv2 int) int { return int(halfedgeFacet[lv1][lv2]) }

// Cells is a growable store of tetrahedra.
type Cells struct {
	verts []int32
	adj   []int32
	next  []uint32

	firstFree uint32
	stamp     uint32
	counter   uint32
}

// New creates an empty store with room for capacity cells.
func New(capacity int) *Cells {
	return &Cells{
		verts:     make([]int32, 0, 4*capacity),
		adj:       make([]int32, 0, 4*capacity),
		next:      make([]uint32, 0, capacity),
		firstFree: endOfList,
		stamp:     notInListBit,
	}
}

// Len returns the number of cell slots, including free ones.
func (c *Cells) Len() int { return len(c.next) }

// Create returns a cell with the given vertices and no neighbors, reusing a
// free slot when one is available.
func (c *Cells) Create(v0, v1, v2, v3 model.VertexID) model.CellID {
	var t uint32
	if c.firstFree == endOfList {
		t = uint32(len(c.next))
		c.verts = append(c.verts, int32(v0), int32(v1), int32(v2), int32(v3))
		c.adj = append(c.adj, -1, -1, -1, -1)
		c.next = append(c.next, notInList)
		return model.CellID(t)
	}

	t = c.firstFree
	c.firstFree = c.next[t]
	c.next[t] = notInList

	i := 4 * t
	c.verts[i], c.verts[i+1], c.verts[i+2], c.verts[i+3] = int32(v0), int32(v1), int32(v2), int32(v3)
	c.adj[i], c.adj[i+1], c.adj[i+2], c.adj[i+3] = -1, -1, -1, -1
	return model.CellID(t)
}

// Vertex returns the local vertex lv of cell t.
func (c *Cells) Vertex(t model.CellID, lv int) model.VertexID {
	return model.VertexID(c.verts[4*int(t)+lv])
}

// SetVertex sets the local vertex lv of cell t.
func (c *Cells) SetVertex(t model.CellID, lv int, v model.VertexID) {
	c.verts[4*int(t)+lv] = int32(v)
}

// Vertices returns the four vertices of cell t.
func (c *Cells) Vertices(t model.CellID) [4]model.VertexID {
	i := 4 * int(t)
	return [4]model.VertexID{
		model.VertexID(c.verts[i]),
		model.VertexID(c.verts[i+1]),
		model.VertexID(c.verts[i+2]),
		model.VertexID(c.verts[i+3]),
	}
}

// Adjacent returns the neighbor of t across facet lf.
func (c *Cells) Adjacent(t model.CellID, lf int) model.CellID {
	return model.CellID(c.adj[4*int(t)+lf])
}

// SetAdjacent sets the neighbor of t across facet lf.
func (c *Cells) SetAdjacent(t model.CellID, lf int, t2 model.CellID) {
	c.adj[4*int(t)+lf] = int32(t2)
}

// FindVertex returns the local index of v in t, or -1.
func (c *Cells) FindVertex(t model.CellID, v model.VertexID) int {
	i := 4 * int(t)
	for lv := 0; lv < 4; lv++ {
		if c.verts[i+lv] == int32(v) {
			return lv
		}
	}
	return -1
}

// FindAdjacent returns the local facet of t shared with t2, or -1.
func (c *Cells) FindAdjacent(t, t2 model.CellID) int {
	i := 4 * int(t)
	for lf := 0; lf < 4; lf++ {
		if c.adj[i+lf] == int32(t2) {
			return lf
		}
	}
	return -1
}

// FacetByHalfedge returns the facet of t to the left of the oriented edge
// (v1, v2). Both vertices must belong to t.
func (c *Cells) FacetByHalfedge(t model.CellID, v1, v2 model.VertexID) int {
	return HalfedgeFacet(c.FindVertex(t, v1), c.FindVertex(t, v2))
}

// FacetsByHalfedge returns the two facets of t incident to edge (v1, v2):
// f12 to the left of (v1, v2) and f21 to the left of (v2, v1).
func (c *Cells) FacetsByHalfedge(t model.CellID, v1, v2 model.VertexID) (f12, f21 int) {
	lv1 := c.FindVertex(t, v1)
	lv2 := c.FindVertex(t, v2)
	return HalfedgeFacet(lv1, lv2), HalfedgeFacet(lv2, lv1)
}

// IsVirtual reports whether t holds the vertex at infinity.
func (c *Cells) IsVirtual(t model.CellID) bool {
	i := 4 * int(t)
	return c.verts[i] < 0 || c.verts[i+1] < 0 || c.verts[i+2] < 0 || c.verts[i+3] < 0
}

// IsFree reports whether t is on the free list.
// Only meaningful while no conflict zone is being collected.
func (c *Cells) IsFree(t model.CellID) bool { return c.InList(t) }

// IsReal reports whether t is a live finite cell.
func (c *Cells) IsReal(t model.CellID) bool { return !c.IsFree(t) && !c.IsVirtual(t) }
