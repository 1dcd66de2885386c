package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleCellMesh() *Mesh {
	return &Mesh{
		NumPoints: 4,
		Vertices:  []int32{0, 1, 2, 3},
		Neighbors: []int32{-1, -1, -1, -1},
		NumFinite: 1,
	}
}

func TestMeshAccessors(t *testing.T) {
	m := singleCellMesh()

	assert.Equal(t, 1, m.NumCells())
	assert.Equal(t, [4]VertexID{0, 1, 2, 3}, m.Cell(0))
	assert.Equal(t, NoCell, m.Adjacent(0, 2))
	assert.True(t, m.IsFinite(0))
	require.NoError(t, m.Validate())
}

func TestMeshValidate(t *testing.T) {
	t.Run("bad length", func(t *testing.T) {
		m := singleCellMesh()
		m.Vertices = m.Vertices[:3]
		assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
	})

	t.Run("vertex out of range", func(t *testing.T) {
		m := singleCellMesh()
		m.Vertices[2] = 7
		assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
	})

	t.Run("neighbor out of range", func(t *testing.T) {
		m := singleCellMesh()
		m.Neighbors[0] = 1
		assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
	})

	t.Run("finite split", func(t *testing.T) {
		m := singleCellMesh()
		m.Vertices[0] = -1
		assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
	})
}

func TestIDs(t *testing.T) {
	assert.True(t, Infinite.IsInfinite())
	assert.False(t, VertexID(0).IsInfinite())
	assert.False(t, NoCell.Valid())
	assert.Equal(t, "Cell(none)", NoCell.String())
	assert.Equal(t, "Cell(3)", CellID(3).String())
}
