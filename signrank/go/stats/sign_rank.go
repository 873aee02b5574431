package stats

import (
	"math"

	mstats "github.com/aclements/go-moremath/stats"
	"github.com/pkg/errors"
)

// ExactLimit is the largest number of non-zero differences for which the
// exact null distribution is enumerated. Larger samples, and any sample with
// tied magnitudes, use the normal approximation.
const ExactLimit = 50

// ErrInvalidDistributionParameters is returned when the sample size, zero
// count and tie correction do not describe a usable distribution.
var ErrInvalidDistributionParameters = errors.New("invalid signed rank distribution parameters")

// Distribution is the null distribution of the signed-rank statistic as seen
// by the test: CDF maps the smaller rank sum to a p-value in [0, 1].
type Distribution interface {
	CDF(w float64) float64
}

// DistributionFactory builds a Distribution from the sample size, the number
// of zero differences and the tie correction.
type DistributionFactory func(n, zeros int, tieCorrection float64) (Distribution, error)

// SignedRank is the distribution of the Wilcoxon signed-rank statistic under
// the null hypothesis that differences are symmetric around zero.
//
// Zero differences take the lowest ranks and are then dropped from the
// statistic (Pratt's treatment), so the statistic is the sum of a random
// subset of the ranks zeros+1 .. n.
type SignedRank struct {
	n     int
	zeros int

	// pmf is non-nil in exact mode; pmf[w] is P(W = w).
	pmf []float64

	// normal is used when pmf is nil.
	normal mstats.NormalDist
}

// NewSignedRank returns the distribution for a sample of n differences, zeros
// of which are exactly zero, with the given accumulated tie correction
// (sum of t^3 - t over tie groups, including the group of zeros).
func NewSignedRank(n, zeros int, tieCorrection float64) (*SignedRank, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidDistributionParameters, "sample size %d must be positive", n)
	}
	if zeros < 0 || zeros > n {
		return nil, errors.Wrapf(ErrInvalidDistributionParameters, "zero count %d must be within [0, %d]", zeros, n)
	}
	if zeros == n {
		return nil, errors.Wrapf(ErrInvalidDistributionParameters, "all %d differences are zero", n)
	}
	if tieCorrection < 0 || math.IsNaN(tieCorrection) {
		return nil, errors.Wrapf(ErrInvalidDistributionParameters, "tie correction %v must be non-negative", tieCorrection)
	}

	// The zeros form a tie group of their own; their effect on the variance
	// is already covered by the Cureton adjustment below.
	z := float64(zeros)
	ties := tieCorrection - (z*z*z - z)
	if ties < 0 {
		return nil, errors.Wrapf(ErrInvalidDistributionParameters, "tie correction %v is smaller than the zero group alone (%v)", tieCorrection, z*z*z-z)
	}

	d := &SignedRank{
		n:     n,
		zeros: zeros,
	}
	if ties == 0 && n-zeros <= ExactLimit {
		d.pmf = signRankPMF(zeros+1, n)
		return d, nil
	}

	nf := float64(n)
	mean := (nf*(nf+1) - z*(z+1)) / 4
	variance := (nf*(nf+1)*(2*nf+1)-z*(z+1)*(2*z+1))/24 - ties/48
	d.normal = mstats.NormalDist{Mu: mean, Sigma: math.Sqrt(variance)}
	return d, nil
}

// NewSignedRankDistribution is a DistributionFactory for SignedRank.
func NewSignedRankDistribution(n, zeros int, tieCorrection float64) (Distribution, error) {
	d, err := NewSignedRank(n, zeros, tieCorrection)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// signRankPMF returns the probability mass function of the sum of a random
// subset of the ranks lo..hi, each included with probability 1/2. Adding rank
// k halves every existing mass and shifts a copy of it up by k.
func signRankPMF(lo, hi int) []float64 {
	size := (hi*(hi+1)-(lo-1)*lo)/2 + 1
	c := make([]float64, size)
	c[0] = 1.0
	cSize := 1
	for k := lo; k <= hi; k++ {
		prevC := c
		c = make([]float64, size)
		for i := 0; i < cSize; i++ {
			c[i] += prevC[i] * 0.5
			c[i+k] += prevC[i] * 0.5
		}
		cSize += k
	}
	return c
}

// Exact reports whether probabilities come from the enumerated distribution
// rather than the normal approximation.
func (d *SignedRank) Exact() bool {
	return d.pmf != nil
}

// Mean returns the expected value of the statistic.
func (d *SignedRank) Mean() float64 {
	if d.pmf != nil {
		n, z := float64(d.n), float64(d.zeros)
		return (n*(n+1) - z*(z+1)) / 4
	}
	return d.normal.Mu
}

// StdDev returns the standard deviation of the statistic, including the tie
// adjustment in approximate mode.
func (d *SignedRank) StdDev() float64 {
	if d.pmf != nil {
		n, z := float64(d.n), float64(d.zeros)
		return math.Sqrt((n*(n+1)*(2*n+1) - z*(z+1)*(2*z+1)) / 24)
	}
	return d.normal.Sigma
}

// LowerTail returns P(W <= w).
func (d *SignedRank) LowerTail(w float64) float64 {
	if d.pmf == nil {
		return d.normal.CDF(w)
	}
	// Statistics are integral in exact mode; guard against w arriving as
	// 2.9999999 from accumulated floating point.
	w = math.Floor(w + 1e-7)
	if w < 0 {
		return 0
	}
	if w >= float64(len(d.pmf)-1) {
		return 1
	}
	p := 0.0
	for i := 0; i <= int(w); i++ {
		p += d.pmf[i]
	}
	return p
}

// CDF returns the two-sided p-value for observing a smaller rank sum of at
// most w, capped at 1.
func (d *SignedRank) CDF(w float64) float64 {
	return math.Min(1, 2*d.LowerTail(w))
}

// Assert that we implement the Distribution interface.
var _ Distribution = (*SignedRank)(nil)
