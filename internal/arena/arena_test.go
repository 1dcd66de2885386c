package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tetgo/model"
)

func TestTables(t *testing.T) {
	t.Run("facet vertices exclude the opposite vertex", func(t *testing.T) {
		for f := 0; f < 4; f++ {
			for i := 0; i < 3; i++ {
				assert.NotEqual(t, f, FacetVertex(f, i))
			}
		}
	})

	t.Run("halfedge facet contains the halfedge", func(t *testing.T) {
		for lv1 := 0; lv1 < 4; lv1++ {
			for lv2 := 0; lv2 < 4; lv2++ {
				if lv1 == lv2 {
					continue
				}
				f := HalfedgeFacet(lv1, lv2)
				assert.NotEqual(t, lv1, f)
				assert.NotEqual(t, lv2, f)
				// The two facets incident to an edge are distinct.
				assert.NotEqual(t, f, HalfedgeFacet(lv2, lv1))
			}
		}
	})
}

func TestCreateAndRecycle(t *testing.T) {
	c := New(4)

	t0 := c.Create(0, 1, 2, 3)
	t1 := c.Create(model.Infinite, 1, 2, 3)
	require.Equal(t, model.CellID(0), t0)
	require.Equal(t, model.CellID(1), t1)
	assert.Equal(t, 2, c.Len())

	assert.False(t, c.IsVirtual(t0))
	assert.True(t, c.IsVirtual(t1))
	assert.True(t, c.IsReal(t0))
	assert.False(t, c.IsFree(t0))
	assert.Equal(t, model.NoCell, c.Adjacent(t0, 0))

	c.SetAdjacent(t0, 0, t1)
	c.SetAdjacent(t1, 0, t0)
	assert.Equal(t, 0, c.FindAdjacent(t0, t1))
	assert.Equal(t, -1, c.FindAdjacent(t0, 7))
	assert.Equal(t, 2, c.FindVertex(t0, 2))
	assert.Equal(t, -1, c.FindVertex(t0, 9))

	zone := NewList()
	c.NewStamp()
	c.Push(&zone, t0)
	assert.True(t, c.InList(t0))
	c.Release(zone)
	assert.True(t, c.IsFree(t0))
	assert.Equal(t, 1, c.NumFree())

	t2 := c.Create(4, 5, 6, 7)
	assert.Equal(t, t0, t2, "free slot is reused")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, [4]model.VertexID{4, 5, 6, 7}, c.Vertices(t2))
	assert.Equal(t, model.NoCell, c.Adjacent(t2, 0), "neighbors are reset")
	assert.Equal(t, 0, c.NumFree())
}

func TestList(t *testing.T) {
	c := New(0)
	for i := 0; i < 3; i++ {
		c.Create(0, 1, 2, 3)
	}

	l := NewList()
	assert.True(t, l.Empty())
	assert.Equal(t, model.NoCell, l.First())

	c.Push(&l, 0)
	c.Push(&l, 2)

	var got []model.CellID
	for t := l.First(); t != model.NoCell; t = c.Next(t) {
		got = append(got, t)
	}
	assert.Equal(t, []model.CellID{2, 0}, got)
	assert.False(t, c.InList(1))
}

func TestStamps(t *testing.T) {
	c := New(0)
	t0 := c.Create(0, 1, 2, 3)

	c.NewStamp()
	c.Mark(t0)
	assert.True(t, c.IsMarked(t0))
	assert.False(t, c.InList(t0))

	c.NewStamp()
	assert.False(t, c.IsMarked(t0), "marks expire with the epoch")

	t.Run("wrap around", func(t *testing.T) {
		c.Mark(t0)
		c.counter = maxStampCounter
		c.NewStamp()
		assert.Equal(t, uint32(1), c.counter)
		assert.False(t, c.IsMarked(t0))
		assert.Equal(t, notInList, c.next[t0])
	})
}

// twoCellShell builds a finite cell glued to one virtual cell, plus a free slot.
func twoCellShell() *Cells {
	c := New(0)
	free := c.Create(9, 9, 9, 9)
	virt := c.Create(model.Infinite, 1, 2, 3)
	fin := c.Create(0, 1, 2, 3)
	c.SetAdjacent(fin, 0, virt)
	c.SetAdjacent(virt, 0, fin)

	l := NewList()
	c.Push(&l, free)
	c.Release(l)
	return c
}

func TestCompact(t *testing.T) {
	t.Run("drop shell", func(t *testing.T) {
		c := twoCellShell()
		finite, removed := c.Compact(false)
		assert.Equal(t, 1, finite)
		assert.Equal(t, 2, removed)
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, [4]model.VertexID{0, 1, 2, 3}, c.Vertices(0))
		assert.Equal(t, model.NoCell, c.Adjacent(0, 0))
		assert.Equal(t, 0, c.NumFree())
	})

	t.Run("keep shell", func(t *testing.T) {
		c := twoCellShell()
		finite, removed := c.Compact(true)
		assert.Equal(t, 1, finite)
		assert.Equal(t, 1, removed)
		require.Equal(t, 2, c.Len())
		assert.False(t, c.IsVirtual(0), "finite cells come first")
		assert.True(t, c.IsVirtual(1))
		assert.Equal(t, model.CellID(1), c.Adjacent(0, 0))
		assert.Equal(t, model.CellID(0), c.Adjacent(1, 0))

		verts, adj := c.Raw()
		assert.Len(t, verts, 8)
		assert.Len(t, adj, 8)
	})
}
