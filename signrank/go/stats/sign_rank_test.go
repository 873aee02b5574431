package stats

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignedRank_InvalidParameters_ReturnsError(t *testing.T) {
	test := func(name string, n, zeros int, tieCorrection float64) {
		t.Run(name, func(t *testing.T) {
			d, err := NewSignedRank(n, zeros, tieCorrection)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.True(t, errors.Is(err, ErrInvalidDistributionParameters))
		})
	}
	test("empty sample", 0, 0, 0)
	test("negative sample size", -1, 0, 0)
	test("negative zero count", 5, -1, 0)
	test("more zeros than values", 5, 6, 0)
	test("only zeros", 5, 5, 120)
	test("negative tie correction", 5, 0, -6)
	test("NaN tie correction", 5, 0, math.NaN())
	test("correction smaller than the zero group", 5, 3, 0)
}

func TestSignRankPMF_SumsToOneAndIsSymmetric(t *testing.T) {
	pmf := signRankPMF(1, 10)
	require.Len(t, pmf, 56)
	sum := 0.0
	for i, p := range pmf {
		sum += p
		assert.InDelta(t, p, pmf[len(pmf)-1-i], 1e-15)
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Equal(t, 1.0/1024, pmf[0])
}

func TestSignRankPMF_ShiftedRanks_SkipLowSums(t *testing.T) {
	// Subsets of {2, 3, 4}: sums 0, 2, 3, 4, 5, 6, 7, 9.
	pmf := signRankPMF(2, 4)
	expected := []float64{1, 0, 1, 1, 1, 1, 1, 1, 0, 1}
	require.Len(t, pmf, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i]/8, pmf[i], "sum %d", i)
	}
}

func TestSignedRank_NoTies_IsExact(t *testing.T) {
	d, err := NewSignedRank(8, 0, 0)
	require.NoError(t, err)
	assert.True(t, d.Exact())
	assert.Equal(t, 18.0, d.Mean())
	assert.Equal(t, math.Sqrt(51), d.StdDev())

	assert.Equal(t, 5.0/256, d.LowerTail(3))
	assert.Equal(t, 10.0/256, d.CDF(3))
	assert.Equal(t, 0.0, d.LowerTail(-1))
	assert.Equal(t, 1.0, d.LowerTail(36))
	// Near integral statistics are not truncated downwards.
	assert.Equal(t, 5.0/256, d.LowerTail(2.99999999))
}

func TestSignedRank_CDF_IsCappedAtOne(t *testing.T) {
	d, err := NewSignedRank(8, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.CDF(18))
	assert.Equal(t, 1.0, d.CDF(100))
}

func TestSignedRank_ZerosOnly_RemainExact(t *testing.T) {
	// Two zeros form a group contributing 2^3-2 = 6, which is removed.
	d, err := NewSignedRank(5, 2, 6)
	require.NoError(t, err)
	assert.True(t, d.Exact())
	// Ranks 3, 4, 5.
	assert.Equal(t, 6.0, d.Mean())
	assert.Equal(t, 0.125, d.LowerTail(0))
	assert.Equal(t, 0.25, d.LowerTail(3))
}

func TestSignedRank_Ties_UseNormalApproximation(t *testing.T) {
	d, err := NewSignedRank(8, 0, 66)
	require.NoError(t, err)
	assert.False(t, d.Exact())
	assert.Equal(t, 18.0, d.Mean())
	assert.Equal(t, math.Sqrt(51-66.0/48), d.StdDev())
	assert.InDelta(t, tiedScenarioPValue, d.CDF(2.5), 1e-9)
}

func TestSignedRank_ZerosAndTies_UseCuretonAdjustment(t *testing.T) {
	// n=6 with 2 zeros (group adds 6) and one tied pair (adds 6).
	d, err := NewSignedRank(6, 2, 12)
	require.NoError(t, err)
	assert.False(t, d.Exact())
	assert.Equal(t, (42.0-6.0)/4, d.Mean())
	assert.InDelta(t, math.Sqrt((546.0-30.0)/24-6.0/48), d.StdDev(), 1e-12)
	assert.InDelta(t, 0.5, d.LowerTail(d.Mean()), 1e-12)
}

func TestSignedRank_LargeSample_UsesNormalApproximation(t *testing.T) {
	d, err := NewSignedRank(ExactLimit+1, 0, 0)
	require.NoError(t, err)
	assert.False(t, d.Exact())

	d, err = NewSignedRank(ExactLimit+1, 1, 0)
	require.NoError(t, err)
	assert.True(t, d.Exact())
}

func TestNewSignedRankDistribution_InvalidParameters_ReturnsNilInterface(t *testing.T) {
	d, err := NewSignedRankDistribution(0, 0, 0)
	require.Error(t, err)
	assert.Nil(t, d)
}
