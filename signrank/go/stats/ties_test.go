package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rankedDelta struct {
	rank  float64
	delta int
}

func collect(r *TieResolver[int]) []rankedDelta {
	ret := []rankedDelta{}
	for rank, delta := range r.All() {
		ret = append(ret, rankedDelta{rank: rank, delta: delta})
	}
	return ret
}

func TestTieResolver_MixedGroups_AveragesRanksAndAccumulatesCorrection(t *testing.T) {
	r := NewTieResolver([]int{0, 0, 1, -1, 1, 2, -3, -3, -3})
	expected := []rankedDelta{
		{1.5, 0}, {1.5, 0},
		{4, 1}, {4, -1}, {4, 1},
		{6, 2},
		{8, -3}, {8, -3}, {8, -3},
	}
	assert.Equal(t, expected, collect(r))
	// (2^3-2) + (3^3-3) + 0 + (3^3-3)
	assert.Equal(t, 54.0, r.TieCorrection())
}

func TestTieResolver_DistinctValues_IntegerRanksAndNoCorrection(t *testing.T) {
	r := NewTieResolver([]int{-1, 2, -3, 4})
	expected := []rankedDelta{{1, -1}, {2, 2}, {3, -3}, {4, 4}}
	assert.Equal(t, expected, collect(r))
	assert.Zero(t, r.TieCorrection())
}

func TestTieResolver_SingleGroup_EveryoneGetsTheMiddleRank(t *testing.T) {
	r := NewTieResolver([]int{5, -5, 5, -5})
	for _, rd := range collect(r) {
		assert.Equal(t, 2.5, rd.rank)
	}
	assert.Equal(t, 60.0, r.TieCorrection())
}

func TestTieResolver_Empty_YieldsNothing(t *testing.T) {
	r := NewTieResolver([]int{})
	_, _, ok := r.Next()
	assert.False(t, ok)
	assert.Zero(t, r.TieCorrection())
}

func TestTieResolver_Exhausted_IsNotRestartable(t *testing.T) {
	r := NewTieResolver([]int{1, 2, 2})
	require.Len(t, collect(r), 3)
	assert.Empty(t, collect(r))
	_, _, ok := r.Next()
	assert.False(t, ok)
	assert.Equal(t, 6.0, r.TieCorrection())
}

func TestTieResolver_NextAndAll_ShareOnePass(t *testing.T) {
	r := NewTieResolver([]int{1, 2, 2, 3})
	rank, delta, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, 1.0, rank)
	assert.Equal(t, 1, delta)

	// Stop ranging in the middle of a tie group.
	for rank, delta := range r.All() {
		assert.Equal(t, 2.5, rank)
		assert.Equal(t, 2, delta)
		break
	}

	rank, delta, ok = r.Next()
	require.True(t, ok)
	assert.Equal(t, 2.5, rank)
	assert.Equal(t, 2, delta)

	assert.Equal(t, []rankedDelta{{4, 3}}, collect(r))
}

func TestTieResolver_NegativeZeroFloat_TiesWithZero(t *testing.T) {
	negZero := math.Copysign(0, -1)
	r := NewTieResolver([]float64{negZero, 0, 1})
	ranks := []float64{}
	for rank := range r.All() {
		ranks = append(ranks, rank)
	}
	assert.Equal(t, []float64{1.5, 1.5, 3}, ranks)
	assert.Equal(t, 6.0, r.TieCorrection())
}
