// Package visited provides a reusable set of cell ids for graph traversals.
package visited

import "github.com/hupe1980/tetgo/model"

// Set tracks visited cells using a bitset and a dirty list for fast reset.
type Set struct {
	bits  []uint64
	dirty []model.CellID
}

// New creates a set sized for capacity cells. It grows on demand.
func New(capacity int) *Set {
	return &Set{
		bits:  make([]uint64, (capacity+63)/64),
		dirty: make([]model.CellID, 0, 64),
	}
}

// Visit marks c as visited and reports whether it was newly added.
func (s *Set) Visit(c model.CellID) bool {
	word := int(c >> 6)
	mask := uint64(1) << (uint(c) & 63)

	if word >= len(s.bits) {
		s.grow(word + 1)
	}
	if s.bits[word]&mask != 0 {
		return false
	}
	s.bits[word] |= mask
	s.dirty = append(s.dirty, c)
	return true
}

// Visited reports whether c has been visited since the last reset.
func (s *Set) Visited(c model.CellID) bool {
	word := int(c >> 6)
	if word >= len(s.bits) {
		return false
	}
	return s.bits[word]&(uint64(1)<<(uint(c)&63)) != 0
}

// Len returns the number of visited cells.
func (s *Set) Len() int { return len(s.dirty) }

// Reset clears the cells visited since the last reset.
func (s *Set) Reset() {
	for _, c := range s.dirty {
		s.bits[c>>6] &^= uint64(1) << (uint(c) & 63)
	}
	s.dirty = s.dirty[:0]
}

func (s *Set) grow(n int) {
	newLen := max(2*len(s.bits), n)
	bits := make([]uint64, newLen)
	copy(bits, s.bits)
	s.bits = bits
}
