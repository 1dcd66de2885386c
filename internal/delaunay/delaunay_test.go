package delaunay

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/hupe1980/tetgo/internal/predicates"
	"github.com/hupe1980/tetgo/model"
	"github.com/hupe1980/tetgo/testutil"
)

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func build(t *testing.T, pts []r3.Vector, lift []float64, optFns ...func(o *Options)) *Triangulation {
	t.Helper()
	tr, err := New(pts, lift, optFns...)
	require.NoError(t, err)
	require.NoError(t, tr.Build(context.Background(), identity(len(pts)), nil))
	return tr
}

func cube() []r3.Vector {
	return []r3.Vector{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1},
	}
}

// finiteCells returns the live finite cells.
func finiteCells(tr *Triangulation) []model.CellID {
	c := tr.Cells()
	var out []model.CellID
	for t := 0; t < c.Len(); t++ {
		ct := model.CellID(t)
		if tr.State() != StateCompacted && c.IsFree(ct) {
			continue
		}
		if !c.IsVirtual(ct) {
			out = append(out, ct)
		}
	}
	return out
}

// requireValid checks structure, empty spheres, orientation and total volume.
func requireValid(t *testing.T, tr *Triangulation, volume float64) {
	t.Helper()
	require.NoError(t, tr.CheckCombinatorics())
	require.NoError(t, tr.CheckGeometry(context.Background()))

	total := 0.0
	for _, ct := range finiteCells(tr) {
		p := tr.cellPoints(ct)
		require.Equal(t, predicates.Positive, predicates.Orient3D(p[0], p[1], p[2], p[3]), tr.DebugString(ct))
		total += p[1].Sub(p[0]).Dot(p[2].Sub(p[0]).Cross(p[3].Sub(p[0]))) / 6
	}
	if volume > 0 {
		assert.InDelta(t, volume, total, 1e-9)
	}
}

func TestUnitTetrahedron(t *testing.T) {
	pts := testutil.UnitTetrahedron()

	t.Run("drop shell", func(t *testing.T) {
		tr := build(t, pts, nil)
		requireValid(t, tr, 1.0/6)

		removed, err := tr.Compact()
		require.NoError(t, err)
		assert.Equal(t, 4, removed)
		assert.Equal(t, 1, tr.NumFiniteCells())
		assert.Equal(t, 1, tr.Cells().Len())
		assert.ElementsMatch(t, []model.VertexID{0, 1, 2, 3}, tr.Cells().Vertices(0))
		for f := 0; f < 4; f++ {
			assert.Equal(t, model.NoCell, tr.Cells().Adjacent(0, f))
		}
		requireValid(t, tr, 1.0/6)
	})

	t.Run("keep shell", func(t *testing.T) {
		tr := build(t, pts, nil, func(o *Options) { o.KeepInfinite = true })
		_, err := tr.Compact()
		require.NoError(t, err)

		c := tr.Cells()
		assert.Equal(t, 5, c.Len())
		assert.Equal(t, 1, tr.NumFiniteCells())
		assert.False(t, c.IsVirtual(0))
		for ct := model.CellID(1); ct < 5; ct++ {
			assert.True(t, c.IsVirtual(ct))
			assert.Equal(t, 0, c.FindVertex(ct, model.Infinite), "one infinite vertex in slot 0")
		}
		requireValid(t, tr, 1.0/6)
	})
}

func TestInteriorPoint(t *testing.T) {
	pts := append(testutil.UnitTetrahedron(), r3.Vector{X: 0.25, Y: 0.25, Z: 0.25})
	tr := build(t, pts, nil)
	_, err := tr.Compact()
	require.NoError(t, err)

	assert.Equal(t, 4, tr.NumFiniteCells())
	for _, ct := range finiteCells(tr) {
		assert.GreaterOrEqual(t, tr.Cells().FindVertex(ct, 4), 0, "every cell uses the interior point")
	}
	requireValid(t, tr, 1.0/6)
}

func TestDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []r3.Vector
	}{
		{"too few", testutil.UnitTetrahedron()[:3]},
		{"identical", []r3.Vector{{X: 1}, {X: 1}, {X: 1}, {X: 1}, {X: 1}}},
		{"collinear", []r3.Vector{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}}},
		{"coplanar", func() []r3.Vector {
			var pts []r3.Vector
			for i := 0; i < 10; i++ {
				pts = append(pts, r3.Vector{X: float64(i % 4), Y: float64(i / 4), Z: 0})
			}
			return pts
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.pts, nil)
			require.NoError(t, err)
			err = tr.Build(context.Background(), identity(len(tt.pts)), nil)
			assert.ErrorIs(t, err, ErrDegenerate)
			assert.Equal(t, 0, tr.Cells().Len())
			assert.Equal(t, StateEmpty, tr.State())
		})
	}
}

func TestSeedSkipsDegeneratePrefix(t *testing.T) {
	// The first three points are collinear and the fourth repeats the first.
	pts := []r3.Vector{{X: 0}, {X: 1}, {X: 2}, {X: 0}, {Y: 1}, {Z: 1}}
	tr := build(t, pts, nil)

	first := tr.FirstTetrahedron()
	assert.ElementsMatch(t, []model.VertexID{0, 1, 4, 5}, first)
	assert.Equal(t, 1, tr.Stats().Skipped)
	requireValid(t, tr, 0)
}

func TestDuplicates(t *testing.T) {
	pts := append(testutil.UnitTetrahedron(), r3.Vector{X: 1, Y: 0, Z: 0})
	tr := build(t, pts, nil)

	s := tr.Stats()
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 4, s.Vertices)
	assert.Equal(t, 1, s.Finite)
	requireValid(t, tr, 1.0/6)

	t.Run("insert again is a no-op", func(t *testing.T) {
		before := tr.Stats()
		got, err := tr.Insert(2, model.NoCell)
		require.NoError(t, err)
		assert.Equal(t, model.NoCell, got)
		assert.Equal(t, before.Cells, tr.Stats().Cells)
	})
}

func TestLocateWithHint(t *testing.T) {
	pts := testutil.NewRNG(7).UniformPoints(50)
	tr := build(t, pts, nil)

	for _, ct := range finiteCells(tr)[:10] {
		p := tr.cellPoints(ct)
		centroid := p[0].Add(p[1]).Add(p[2]).Add(p[3]).Mul(0.25)

		loc := tr.Locate(centroid, ct, false)
		assert.Equal(t, ct, loc.Cell)
		assert.Equal(t, 0, loc.Steps)
		for _, s := range loc.Orient {
			assert.Equal(t, predicates.Positive, s)
		}

		loc = tr.Locate(centroid, model.NoCell, true)
		assert.Equal(t, ct, loc.Cell, "the walk ends in the unique containing cell")
	}
}

func TestLocateOutside(t *testing.T) {
	far := r3.Vector{X: 10, Y: 10, Z: 10}

	t.Run("shell", func(t *testing.T) {
		tr := build(t, cube(), nil, func(o *Options) { o.KeepInfinite = true })
		_, err := tr.Compact()
		require.NoError(t, err)

		loc := tr.Locate(far, model.NoCell, true)
		require.True(t, loc.Found())
		assert.True(t, tr.Cells().IsVirtual(loc.Cell))
	})

	t.Run("no shell", func(t *testing.T) {
		tr := build(t, cube(), nil)
		_, err := tr.Compact()
		require.NoError(t, err)

		assert.False(t, tr.Locate(far, model.NoCell, true).Found())
		assert.True(t, tr.Locate(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, model.NoCell, true).Found())
	})

	t.Run("no shell near hull", func(t *testing.T) {
		tr := build(t, testutil.NewRNG(9).UniformPoints(80), nil)
		_, err := tr.Compact()
		require.NoError(t, err)

		// Walks from every cell to points hugging the hull facets.
		var queries []r3.Vector
		for _, ct := range finiteCells(tr) {
			p := tr.cellPoints(ct)
			for i := 0; i < 4; i++ {
				if tr.Cells().Adjacent(ct, i) != model.NoCell {
					continue
				}
				a, b, d := p[(i+1)%4], p[(i+2)%4], p[(i+3)%4]
				centroid := a.Add(b).Add(d).Mul(1.0 / 3)
				queries = append(queries, centroid, centroid.Add(p[i].Sub(centroid).Mul(1e-9)))
			}
		}
		require.NotEmpty(t, queries)

		cells := finiteCells(tr)
		for _, q := range queries {
			for _, hint := range []model.CellID{cells[0], cells[len(cells)/2], cells[len(cells)-1]} {
				assert.True(t, tr.Locate(q, hint, true).Found(), "%v from %d", q, hint)
			}
		}
	})
}

func TestRandomPoints(t *testing.T) {
	rng := testutil.NewRNG(4711)
	pts := append(cube(), rng.UniformPoints(200)...)

	tr := build(t, pts, nil)
	requireValid(t, tr, 1)

	s := tr.Stats()
	assert.Positive(t, s.FreeSlots)
	assert.Equal(t, tr.Cells().Len(), s.Cells+s.FreeSlots)

	_, err := tr.Compact()
	require.NoError(t, err)
	requireValid(t, tr, 1)

	s = tr.Stats()
	assert.Equal(t, len(pts), s.Vertices)
	assert.Equal(t, 0, s.Virtual)
	assert.Equal(t, 0, s.FreeSlots)
	assert.Equal(t, StateCompacted, s.State)
}

func TestLattice(t *testing.T) {
	pts := testutil.Lattice(4)
	tr := build(t, pts, nil)
	requireValid(t, tr, 27)

	_, err := tr.Compact()
	require.NoError(t, err)
	assert.Equal(t, 64, tr.Stats().Vertices)
	requireValid(t, tr, 27)
}

func TestCospherical(t *testing.T) {
	pts := testutil.NewRNG(3).SpherePoints(100)
	tr := build(t, pts, nil)
	requireValid(t, tr, 0)
}

func TestShuffledOrder(t *testing.T) {
	rng := testutil.NewRNG(11)
	pts := append(cube(), rng.UniformPoints(100)...)

	tr, err := New(pts, nil)
	require.NoError(t, err)
	require.NoError(t, tr.Build(context.Background(), rng.Perm(len(pts)), nil))
	requireValid(t, tr, 1)
}

func TestWeighted(t *testing.T) {
	t.Run("hidden point", func(t *testing.T) {
		pts := append(cube(), r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})
		lift := make([]float64, len(pts))
		lift[8] = 2

		tr := build(t, pts, lift)
		s := tr.Stats()
		assert.True(t, s.Weighted)
		assert.Equal(t, 1, s.Skipped)
		assert.Equal(t, 8, s.Vertices)
		requireValid(t, tr, 1)

		// Without weight the center is a vertex.
		tr = build(t, pts, nil)
		assert.Equal(t, 9, tr.Stats().Vertices)
	})

	t.Run("hidden after insertion", func(t *testing.T) {
		pts := append(cube(), r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})
		lift := make([]float64, len(pts))
		lift[8] = 2

		tr, err := New(pts, lift)
		require.NoError(t, err)
		// The center lies outside the first tetrahedron, so it is inserted
		// and then covered once the remaining corners arrive.
		require.NoError(t, tr.Build(context.Background(), []int{0, 1, 2, 4, 8, 3, 5, 6, 7}, nil))

		s := tr.Stats()
		assert.Equal(t, 9, s.Inserted)
		assert.Equal(t, 8, s.Vertices)
		assert.Equal(t, 1, s.Hidden)
		assert.Equal(t, 1, s.Skipped)
		assert.NotContains(t, tr.ReferencedVertices().ToArray(), uint32(8))
		requireValid(t, tr, 1)

		_, err = tr.Compact()
		require.NoError(t, err)
		assert.Equal(t, 1, tr.Stats().Hidden)
	})

	t.Run("random", func(t *testing.T) {
		rng := testutil.NewRNG(5)
		pts := append(cube(), rng.UniformPoints(150)...)
		lift := rng.Lifts(len(pts), 0.2)
		for i := 0; i < 8; i++ {
			lift[i] = 0
		}

		tr := build(t, pts, lift)
		requireValid(t, tr, 1)
		assert.InDelta(t, pts[9].Norm2()+lift[9]*lift[9], tr.Height(9), 1e-15)
	})
}

func TestBuildErrors(t *testing.T) {
	pts := testutil.UnitTetrahedron()

	t.Run("invalid order", func(t *testing.T) {
		tr, err := New(pts, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, tr.Build(context.Background(), []int{0, 1, 1, 2}, nil), ErrInvalidOrder)
		assert.ErrorIs(t, tr.Build(context.Background(), []int{0, 1, 2}, nil), ErrInvalidOrder)
		assert.ErrorIs(t, tr.Build(context.Background(), []int{0, 1, 2, 4}, nil), ErrInvalidOrder)
	})

	t.Run("build twice", func(t *testing.T) {
		tr := build(t, pts, nil)
		assert.ErrorIs(t, tr.Build(context.Background(), identity(4), nil), ErrInvalidState)
	})

	t.Run("compact before build", func(t *testing.T) {
		tr, err := New(pts, nil)
		require.NoError(t, err)
		_, err = tr.Compact()
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := New(pts, []float64{1})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = New([]r3.Vector{{X: 1}, {X: math.NaN()}}, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCancellation(t *testing.T) {
	pts := testutil.NewRNG(1).UniformPoints(100)

	t.Run("progress", func(t *testing.T) {
		tr, err := New(pts, nil)
		require.NoError(t, err)

		var calls int
		err = tr.Build(context.Background(), identity(len(pts)), func(i, n int) bool {
			calls++
			assert.Equal(t, len(pts), n)
			return i < 20
		})
		assert.ErrorIs(t, err, ErrCanceled)
		assert.Greater(t, calls, 0)
		assert.Equal(t, StateSeeded, tr.State())
		require.NoError(t, tr.CheckGeometry(context.Background()), "partial result stays consistent")
	})

	t.Run("context", func(t *testing.T) {
		tr, err := New(pts, nil)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, tr.Build(ctx, identity(len(pts)), nil), context.Canceled)
	})
}

func TestDeterminism(t *testing.T) {
	pts := testutil.NewRNG(99).UniformPoints(300)

	a := build(t, pts, nil)
	b := build(t, pts, nil)

	va, aa := a.Cells().Raw()
	vb, ab := b.Cells().Raw()
	assert.Equal(t, va, vb)
	assert.Equal(t, aa, ab)
}

func TestNearestVertex(t *testing.T) {
	rng := testutil.NewRNG(21)
	pts := rng.UniformPoints(300)
	queries := append(rng.UniformRangePoints(100, -0.5, 1.5), pts[17])

	t.Run("compacted", func(t *testing.T) {
		tr := build(t, pts, nil)
		_, err := tr.Compact()
		require.NoError(t, err)

		for _, q := range queries {
			want := testutil.NearestBrute(pts, q)
			got := tr.NearestVertex(q)
			assert.Equal(t, q.Sub(pts[want]).Norm2(), q.Sub(pts[got]).Norm2())
		}
	})

	t.Run("before compaction", func(t *testing.T) {
		tr := build(t, pts, nil)
		for _, q := range queries[:10] {
			assert.Equal(t, model.VertexID(testutil.NearestBrute(pts, q)), tr.NearestVertex(q))
		}
	})

	t.Run("weighted power distance", func(t *testing.T) {
		wpts := []r3.Vector{{X: 0}, {X: 1}, {Y: 1}, {Z: 1}}
		lift := []float64{0, 0, 0, 0}
		tr := build(t, wpts, lift)
		assert.Equal(t, model.VertexID(1), tr.NearestVertex(r3.Vector{X: 0.6}))

		// A large lift pushes vertex 1 away in power distance.
		lift[1] = 1
		tr = build(t, wpts, lift)
		assert.Equal(t, model.VertexID(0), tr.NearestVertex(r3.Vector{X: 0.6}))
	})

	t.Run("empty", func(t *testing.T) {
		tr, err := New(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, model.Infinite, tr.NearestVertex(r3.Vector{}))
	})
}

func TestCheckDetectsCorruption(t *testing.T) {
	tr := build(t, cube(), nil)
	ct := finiteCells(tr)[0]
	tr.Cells().SetAdjacent(ct, 0, ct)

	err := tr.CheckCombinatorics()
	require.Error(t, err)

	var v *Violation
	require.True(t, errors.As(err, &v))
	kinds := make(map[ViolationKind]bool)
	for _, e := range multierr.Errors(err) {
		if errors.As(e, &v) {
			kinds[v.Kind] = true
		}
	}
	assert.True(t, kinds[SelfAdjacent])
	assert.True(t, kinds[NotReciprocal])
}

func TestDebugString(t *testing.T) {
	tr := build(t, testutil.UnitTetrahedron(), nil)
	ct := finiteCells(tr)[0]

	assert.Contains(t, tr.DebugString(ct), "(finite)")
	assert.Contains(t, tr.DebugString(ct+1), "v=inf")
	assert.Contains(t, tr.DebugString(100), "out of range")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "compacted", StateCompacted.String())
	assert.Equal(t, "empty sphere violated", EmptySphere.String())
}

func TestMesh(t *testing.T) {
	rng := testutil.NewRNG(11)
	pts := rng.UniformPoints(100)
	tr := build(t, pts, nil)

	_, err := tr.Mesh()
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = tr.Compact()
	require.NoError(t, err)

	m, err := tr.Mesh()
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 100, m.NumPoints)
	assert.Equal(t, tr.NumFiniteCells(), m.NumFinite)
	assert.Equal(t, tr.Cells().Len(), m.NumCells())
	assert.False(t, m.KeepInfinite)

	// The copy is detached from the triangulation.
	m.Vertices[0] = -1
	assert.NotEqual(t, model.Infinite, tr.Cells().Vertex(0, 0))
}
