package visited

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/tetgo/model"
)

func TestSet(t *testing.T) {
	s := New(10)

	assert.False(t, s.Visited(1))
	assert.True(t, s.Visit(1))
	assert.False(t, s.Visit(1), "second visit is not new")
	assert.True(t, s.Visited(1))
	assert.False(t, s.Visited(5))
	assert.Equal(t, 1, s.Len())

	s.Reset()
	assert.False(t, s.Visited(1))
	assert.Equal(t, 0, s.Len())

	// Visiting past the initial capacity grows the set.
	s.Visit(1)
	assert.True(t, s.Visit(model.CellID(200)))
	assert.True(t, s.Visited(200))
	assert.True(t, s.Visited(1))
	assert.False(t, s.Visited(100000))
}
