package infra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplexCompare(t *testing.T) {
	var c1 complex128 = complex(1.0, 2.0) // 1.0+2.0i
	var c2 complex128 = complex(1.1, 2.0) // 1.1+2.0i
	_c1 := math.Hypot(real(c1), imag(c1))
	_c2 := math.Hypot(real(c2), imag(c2))
	assert.Greater(t, _c2, _c1)
}

func TestOrderedCompare(t *testing.T) {
	testcases := []struct {
		i, j     int
		expected int64
	}{
		{1, 1, 0},
		{1, 2, -1},
		{2, 1, 1},
		{-5, 3, -1},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.expected, OrderedCompare(tc.i, tc.j))
	}
	require.Equal(t, int64(-1), OrderedCompare("a", "b"))
}

func TestComparatorToLess(t *testing.T) {
	require.Nil(t, ComparatorToLess[int](nil))

	less := ComparatorToLess[int](OrderedCompare[int])
	require.True(t, less(1, 2))
	require.False(t, less(2, 1))
	require.False(t, less(2, 2))
	require.True(t, Equivalent(less, 2, 2))
	require.False(t, Equivalent(less, 2, 3))
}

func TestReverseLess(t *testing.T) {
	require.Nil(t, ReverseLess[int](nil))

	desc := ReverseLess[float64](OrderedLess[float64])
	require.True(t, desc(2.5, 1.5))
	require.False(t, desc(1.5, 2.5))
	require.True(t, Equivalent(desc, 1.5, 1.5))
}

func TestEquivalentByField(t *testing.T) {
	type pair struct {
		k, v int
	}
	less := func(a, b pair) bool { return a.k < b.k }
	require.True(t, Equivalent(less, pair{1, 10}, pair{1, 20}))
	require.False(t, Equivalent(less, pair{1, 10}, pair{2, 10}))
}
