package locus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/crosscover/pkg/errors"
)

func TestIndexInterning(t *testing.T) {
	idx := NewIndex("L1", "L2", "L1", "L3")

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{"L1", "L2", "L3"}, idx.Names())

	id, ok := idx.ID("L2")
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, "L2", idx.Name(id))

	_, ok = idx.ID("missing")
	assert.False(t, ok)

	assert.Equal(t, 3, idx.Intern("L4"))
	assert.Equal(t, 0, idx.Intern("L1"))
}

func TestZeroIndex(t *testing.T) {
	var idx Index
	assert.Equal(t, 0, idx.Intern("a"))
	assert.Equal(t, 1, idx.Len())
}

func TestSetBasics(t *testing.T) {
	idx := NewIndex("a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	s := idx.NewSet()

	assert.Equal(t, 10, s.Width())
	assert.True(t, s.IsEmpty())

	s.Add(0)
	s.Add(9)
	s.Add(9)
	s.Add(42) // out of range, ignored
	s.Add(-1)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(0))
	assert.True(t, s.Has(9))
	assert.False(t, s.Has(5))
	assert.False(t, s.Has(42))
	assert.Equal(t, []int{0, 9}, s.IDs())
	assert.Equal(t, []string{"a", "j"}, idx.Resolve(s))
}

func TestSetOf(t *testing.T) {
	idx := NewIndex("a", "b", "c")
	s, err := idx.SetOf("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, s.IDs())

	_, err = idx.SetOf("z")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestUnionDifferenceGain(t *testing.T) {
	idx := NewIndex("L1", "L2", "L3", "L4")
	a, _ := idx.SetOf("L1", "L2")
	b, _ := idx.SetOf("L2", "L3")

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"L1", "L2", "L3"}, idx.Resolve(u))

	d, err := b.Difference(a)
	require.NoError(t, err)
	assert.Equal(t, []string{"L3"}, idx.Resolve(d))

	assert.Equal(t, 1, a.Gain(b))
	assert.Equal(t, 0, u.Gain(a))
	assert.Equal(t, 2, idx.NewSet().Gain(a))

	// operands are untouched
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestWidthMismatch(t *testing.T) {
	a := NewSet(3)
	b := NewSet(5)

	_, err := a.Union(b)
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))
	_, err = a.Difference(b)
	assert.Error(t, err)
	assert.Equal(t, 0, a.Gain(b))
	assert.False(t, a.Equal(b))
}

func TestCloneAndEqual(t *testing.T) {
	idx := NewIndex("x", "y")
	a, _ := idx.SetOf("x")
	c := a.Clone()
	require.True(t, a.Equal(c))

	c.Add(1)
	assert.False(t, a.Equal(c))
	assert.Equal(t, 1, a.Len())

	var zero Set
	assert.True(t, zero.Equal(NewSet(0)))
	assert.Equal(t, 0, zero.Len())
	assert.Nil(t, zero.IDs())
}

func TestUnionAll(t *testing.T) {
	idx := NewIndex("a", "b", "c")
	x, _ := idx.SetOf("a")
	y, _ := idx.SetOf("c")

	u, err := UnionAll(idx.Len(), x, y)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Len())

	empty, err := UnionAll(idx.Len())
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}
