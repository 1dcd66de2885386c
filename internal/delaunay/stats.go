package delaunay

import "github.com/hupe1980/tetgo/model"

// Stats summarizes the cell structure.
type Stats struct {
	State     State
	Weighted  bool
	Points    int
	Vertices  int // points used by at least one cell
	Inserted  int // insertions performed, including the first tetrahedron
	Skipped   int // processed points not used by any cell
	Hidden    int // inserted vertices a later insertion removed
	Cells     int // live cells, finite and virtual
	Finite    int
	Virtual   int
	FreeSlots int
}

// Stats returns statistics about the triangulation.
func (tr *Triangulation) Stats() Stats {
	c := tr.cells
	s := Stats{
		State:    tr.state,
		Weighted: tr.Weighted(),
		Points:   len(tr.points),
		Inserted: tr.inserted,
	}

	s.FreeSlots = c.NumFree()
	for t := 0; t < c.Len(); t++ {
		ct := model.CellID(t)
		switch {
		case c.IsFree(ct):
		case c.IsVirtual(ct):
			s.Virtual++
		default:
			s.Finite++
		}
	}
	s.Cells = s.Finite + s.Virtual
	s.Vertices = int(tr.ReferencedVertices().GetCardinality())

	// Weighted vertices can vanish after insertion, so both counts come
	// from the final cells.
	s.Skipped = max(0, tr.inserted+tr.skipped-s.Vertices)
	s.Hidden = max(0, tr.inserted-s.Vertices)
	return s
}
