package arena

import "github.com/hupe1980/tetgo/model"

// List is a singly linked list of cells threaded through the link words.
type List struct {
	first, last uint32
}

// NewList returns an empty list.
func NewList() List { return List{first: endOfList, last: endOfList} }

// Empty reports whether the list has no cells.
func (l List) Empty() bool { return l.first == endOfList }

// First returns the head of the list, or model.NoCell.
func (l List) First() model.CellID {
	if l.Empty() {
		return model.NoCell
	}
	return model.CellID(l.first)
}

// InList reports whether t is linked in a list.
func (c *Cells) InList(t model.CellID) bool {
	return c.next[t]&notInListBit == 0
}

// Push prepends t to l.
func (c *Cells) Push(l *List, t model.CellID) {
	if l.Empty() {
		l.first = uint32(t)
		l.last = uint32(t)
		c.next[t] = endOfList
		return
	}
	c.next[t] = l.first
	l.first = uint32(t)
}

// Next returns the successor of t in its list, or model.NoCell.
func (c *Cells) Next(t model.CellID) model.CellID {
	n := c.next[t]
	if n == endOfList {
		return model.NoCell
	}
	return model.CellID(n)
}

// Release splices all cells of l onto the free list.
func (c *Cells) Release(l List) {
	if l.Empty() {
		return
	}
	c.next[l.last] = c.firstFree
	c.firstFree = l.first
}

// NewStamp starts a new marking epoch. Cells marked in earlier epochs are no
// longer marked. On counter wrap-around all stale marks are cleared.
func (c *Cells) NewStamp() {
	if c.counter == maxStampCounter {
		for i, n := range c.next {
			if n&notInListBit != 0 {
				c.next[i] = notInList
			}
		}
		c.counter = 0
	}
	c.counter++
	c.stamp = c.counter | notInListBit
}

// Mark stamps t with the current epoch. t must not be in a list.
func (c *Cells) Mark(t model.CellID) { c.next[t] = c.stamp }

// IsMarked reports whether t carries the current stamp.
func (c *Cells) IsMarked(t model.CellID) bool { return c.next[t] == c.stamp }

// NumFree returns the number of cells on the free list.
func (c *Cells) NumFree() int {
	n := 0
	for t := c.firstFree; t != endOfList; t = c.next[t] {
		n++
	}
	return n
}
