package delaunay

import (
	"github.com/golang/geo/r3"

	"github.com/hupe1980/tetgo/internal/predicates"
	"github.com/hupe1980/tetgo/model"
)

// Locate finds the cell containing p, starting the walk at hint when it is a
// live cell and at a random cell otherwise.
//
// Locate takes no lock. With threadSafe set, the walk draws one value from
// the shared random sequence and continues on a private stream; otherwise
// every random choice advances the shared sequence, which keeps single
// threaded builds reproducible for a fixed seed.
func (tr *Triangulation) Locate(p r3.Vector, hint model.CellID, threadSafe bool) Location {
	if !threadSafe {
		return tr.locate(p, hint, tr.nextRand)
	}
	r := localRand{state: tr.nextRand()}
	return tr.locate(p, hint, r.next)
}

// startCell turns hint into a live finite cell to start a walk from.
func (tr *Triangulation) startCell(hint model.CellID, rnd func() uint64) model.CellID {
	c := tr.cells
	n := c.Len()
	if n == 0 {
		return model.NoCell
	}

	if hint < 0 || int(hint) >= n || c.IsFree(hint) {
		for {
			hint = model.CellID(rnd() % uint64(n))
			if !c.IsFree(hint) {
				break
			}
		}
	}

	if lv := c.FindVertex(hint, model.Infinite); lv >= 0 {
		hint = c.Adjacent(hint, lv)
	}
	return hint
}

// locateInexact walks with floating-point orientations only. It returns a
// good starting cell for the exact walk, or model.NoCell. Cycling caused by
// rounding is cut off after maxSteps.
func (tr *Triangulation) locateInexact(p r3.Vector, hint model.CellID, maxSteps int, rnd func() uint64) model.CellID {
	c := tr.cells
	t := tr.startCell(hint, rnd)
	if t == model.NoCell {
		return model.NoCell
	}

	pred := model.NoCell
	for step := 0; step < maxSteps; step++ {
		pv := tr.cellPoints(t)
		next := model.NoCell
		for f := 0; f < 4; f++ {
			t2 := c.Adjacent(t, f)
			if t2 != model.NoCell && t2 == pred {
				continue
			}
			saved := pv[f]
			pv[f] = p
			if predicates.Orient3DInexact(pv[0], pv[1], pv[2], pv[3]) == predicates.Negative {
				if t2 == model.NoCell {
					return model.NoCell
				}
				next = t2
				break
			}
			pv[f] = saved
		}

		if next == model.NoCell {
			return t
		}
		if c.IsVirtual(next) {
			return next
		}
		pred, t = t, next
	}
	return t
}

func (tr *Triangulation) locate(p r3.Vector, hint model.CellID, rnd func() uint64) Location {
	c := tr.cells

	if tr.opts.MaxInexactSteps > 0 {
		if t := tr.locateInexact(p, hint, tr.opts.MaxInexactSteps, rnd); t != model.NoCell {
			hint = t
		}
	}

	t := tr.startCell(hint, rnd)
	if t == model.NoCell {
		return Location{Cell: model.NoCell}
	}

	var (
		orient [4]predicates.Sign
		steps  int
	)
	pred := model.NoCell

walk:
	for {
		pv := tr.cellPoints(t)

		// A random first facet makes the walk terminate on any triangulation.
		f0 := int(rnd() % 4)
		for df := 0; df < 4; df++ {
			f := (f0 + df) % 4
			t2 := c.Adjacent(t, f)

			if t2 != model.NoCell && t2 == pred {
				orient[f] = predicates.Positive
				continue
			}

			saved := pv[f]
			pv[f] = p
			orient[f] = predicates.Orient3D(pv[0], pv[1], pv[2], pv[3])
			if orient[f] != predicates.Negative {
				pv[f] = saved
				continue
			}

			// Only a walk that must cross a stripped hull facet fails; interior
			// points next to one are still found.
			if t2 == model.NoCell {
				return Location{Cell: model.NoCell, Steps: steps}
			}
			if c.IsVirtual(t2) {
				return Location{
					Cell:   t2,
					Orient: [4]predicates.Sign{predicates.Positive, predicates.Positive, predicates.Positive, predicates.Positive},
					Steps:  steps,
				}
			}

			pred, t = t, t2
			steps++
			continue walk
		}

		return Location{Cell: t, Orient: orient, Steps: steps}
	}
}
