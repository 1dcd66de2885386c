package arena

// Compact removes free cells, and virtual cells unless keepInfinite is set,
// renumbering the survivors densely. Neighbor links to removed cells become
// model.NoCell. With keepInfinite, finite cells are moved before virtual ones.
//
// It returns the number of finite cells and the number of removed slots.
// All cells are unlinked afterwards and the free list is empty.
func (c *Cells) Compact(keepInfinite bool) (numFinite, removed int) {
	n := c.Len()
	old2new := make([]int32, n)

	kept := 0
	for t := 0; t < n; t++ {
		free := c.next[t]&notInListBit == 0
		if free || (!keepInfinite && c.isVirtualAt(t)) {
			old2new[t] = -1
			continue
		}
		old2new[t] = int32(kept)
		copy(c.verts[4*kept:4*kept+4], c.verts[4*t:4*t+4])
		copy(c.adj[4*kept:4*kept+4], c.adj[4*t:4*t+4])
		kept++
	}
	removed = n - kept

	c.verts = c.verts[:4*kept]
	c.adj = c.adj[:4*kept]
	c.next = c.next[:kept]
	for i := range c.next {
		c.next[i] = notInList
	}
	c.firstFree = endOfList

	c.remap(old2new)

	if !keepInfinite {
		return kept, removed
	}

	// Partition so that finite cells come first.
	perm := old2new[:kept]
	for i := range perm {
		perm[i] = int32(i)
	}
	finite, infinite := 0, kept-1
	for {
		for finite < kept && !c.isVirtualAt(finite) {
			finite++
		}
		for infinite >= 0 && c.isVirtualAt(infinite) {
			infinite--
		}
		if finite > infinite {
			break
		}
		c.swap(finite, infinite)
		perm[finite], perm[infinite] = int32(infinite), int32(finite)
		finite++
		infinite--
	}

	c.remap(perm)
	return finite, removed
}

func (c *Cells) isVirtualAt(t int) bool {
	i := 4 * t
	return c.verts[i] < 0 || c.verts[i+1] < 0 || c.verts[i+2] < 0 || c.verts[i+3] < 0
}

func (c *Cells) swap(a, b int) {
	for k := 0; k < 4; k++ {
		c.verts[4*a+k], c.verts[4*b+k] = c.verts[4*b+k], c.verts[4*a+k]
		c.adj[4*a+k], c.adj[4*b+k] = c.adj[4*b+k], c.adj[4*a+k]
	}
}

func (c *Cells) remap(old2new []int32) {
	for i, t := range c.adj {
		if t >= 0 {
			c.adj[i] = old2new[t]
		}
	}
}

// Raw returns the underlying vertex and neighbor arrays.
// The slices alias the store and must not be modified.
func (c *Cells) Raw() (verts, adj []int32) { return c.verts, c.adj }
