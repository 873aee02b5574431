// Package stats implements the Wilcoxon signed-rank test for paired samples.
//
// The test ranks the paired differences x[i]-y[i] by absolute value, sums the
// ranks of negative and positive differences separately and compares the
// smaller sum against the signed-rank null distribution. Ties in absolute
// value receive averaged ranks and feed a variance correction; differences
// that are exactly zero are ranked but left out of both sums.
//
// The sort used to order differences is pluggable, see SortStrategy.
package stats

import (
	"github.com/pkg/errors"
)

// ErrLengthMismatch is returned when the two samples of a paired test do not
// have the same number of values.
var ErrLengthMismatch = errors.New("paired samples must have the same length")

// StatisticalTest is the part of a test result that is reported uniformly
// across tests.
type StatisticalTest interface {
	// PValue is the probability, under the null hypothesis, of a result at
	// least as extreme as the one observed.
	PValue() float64

	// EffectSize is a normalized statistic in [0, 1].
	EffectSize() float64
}

// WilcoxonWTest is the immutable result of a Wilcoxon signed-rank test.
type WilcoxonWTest struct {
	// estimate[0] sums the ranks of negative differences (x < y),
	// estimate[1] those of positive differences (x > y).
	estimate   [2]float64
	pValue     float64
	effectSize float64
}

// Paired runs the test on x and y using DefaultSort.
func Paired[T Number](x, y []T) (WilcoxonWTest, error) {
	return PairedWithSort(x, y, DefaultSort[T]())
}

// RadixPaired runs the test on x and y using RadixSort. The result is
// identical to Paired.
func RadixPaired[T Radixable](x, y []T) (WilcoxonWTest, error) {
	return PairedWithSort(x, y, RadixSort[T]())
}

// PairedWithSort runs the test on x and y, ordering the differences with the
// given strategy.
func PairedWithSort[T Number](x, y []T, sort SortStrategy[T]) (WilcoxonWTest, error) {
	return PairedWithDistribution(x, y, sort, NewSignedRankDistribution)
}

// PairedWithDistribution is PairedWithSort with the null distribution built
// by newDist instead of NewSignedRank.
func PairedWithDistribution[T Number](x, y []T, sort SortStrategy[T], newDist DistributionFactory) (WilcoxonWTest, error) {
	if len(x) != len(y) {
		return WilcoxonWTest{}, errors.Wrapf(ErrLengthMismatch, "len(x)=%d, len(y)=%d", len(x), len(y))
	}

	deltas := make([]T, len(x))
	for i := range x {
		deltas[i] = x[i] - y[i]
	}

	sort.Sort(deltas)

	resolver := NewTieResolver(deltas)
	var estimate [2]float64
	zeros := 0
	for rank, delta := range resolver.All() {
		switch {
		case delta < 0:
			estimate[0] += rank
		case delta > 0:
			estimate[1] += rank
		default:
			zeros++
		}
	}

	smaller := min(estimate[0], estimate[1])
	dist, err := newDist(len(deltas), zeros, resolver.TieCorrection())
	if err != nil {
		return WilcoxonWTest{}, errors.Wrap(err, "building signed rank distribution")
	}
	pValue := dist.CDF(smaller)

	n := float64(len(deltas))
	rankSum := n * (n + 1) / 2
	return WilcoxonWTest{
		estimate:   estimate,
		pValue:     pValue,
		effectSize: smaller / rankSum,
	}, nil
}

// Estimate returns the rank sum of the negative differences followed by the
// rank sum of the positive differences.
func (w WilcoxonWTest) Estimate() (float64, float64) {
	return w.estimate[0], w.estimate[1]
}

// PValue implements StatisticalTest.
func (w WilcoxonWTest) PValue() float64 {
	return w.pValue
}

// EffectSize implements StatisticalTest. It is the smaller rank sum divided
// by n(n+1)/2.
func (w WilcoxonWTest) EffectSize() float64 {
	return w.effectSize
}

// Assert that we implement the StatisticalTest interface.
var _ StatisticalTest = WilcoxonWTest{}
