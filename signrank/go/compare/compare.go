// Package compare decides whether two paired samples are statistically
// different, the same, or whether there is not enough evidence either way.
//
// The method is:
//   - Run the Wilcoxon signed-rank test on the pairs.
//   - If the p-value <= LowThreshold, return Different.
//   - Else if the p-value <= the high threshold, return Unknown.
//   - Else return Same.
//
// The high threshold expresses how suspicious a p-value has to be before it
// is worth collecting more data. It is configurable, LowThreshold is not.
package compare

import (
	"github.com/pkg/errors"

	"github.com/pairedstats/infra/go/sklog"
	"github.com/pairedstats/infra/signrank/go/stats"
)

// Verdict is the outcome of a comparison.
type Verdict int

// These verdicts are the possible results of the statistical analysis.
const (
	// Unknown means that there is not enough evidence to reject
	// either hypothesis. Collect more data before making a final decision.
	Unknown Verdict = iota
	// Same means that the differences are likely symmetric around zero.
	// Cannot reject the null hypothesis.
	Same
	// Different means that the differences are unlikely to be symmetric
	// around zero. Reject the null hypothesis.
	Different
)

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case Same:
		return "same"
	case Different:
		return "different"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so verdicts serialize by name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, the inverse of
// MarshalText.
func (v *Verdict) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unknown":
		*v = Unknown
	case "same":
		*v = Same
	case "different":
		*v = Different
	default:
		return errors.Errorf("unknown verdict %q", b)
	}
	return nil
}

const (
	// LowThreshold is the significance level below which the null hypothesis
	// is rejected.
	LowThreshold = 0.01

	// DefaultHighThreshold is used when the caller supplies an unusable high
	// threshold.
	DefaultHighThreshold = 0.05
)

// CompareResults contains the results of a comparison between two samples.
type CompareResults struct {
	// Verdict is the outcome of the statistical analysis which is either
	// Unknown, Same, or Different.
	Verdict Verdict

	// PValue is the p-value of the signed-rank test.
	PValue float64

	// EffectSize is the smaller rank sum normalized by n(n+1)/2.
	EffectSize float64

	// Estimate holds the rank sums of negative and positive differences.
	Estimate [2]float64

	// LowThreshold is `alpha` where if the p-value is lower means we can
	// reject the null hypothesis.
	LowThreshold float64

	// HighThreshold is the `alpha` where if the p-value is lower means we need
	// more information to make a definitive judgement.
	HighThreshold float64
}

// ComparePaired determines whether the pairs (before[i], after[i]) differ,
// using DefaultSort to order the differences.
func ComparePaired[T stats.Number](before, after []T, highThreshold float64) (*CompareResults, error) {
	return ComparePairedWithSort(before, after, highThreshold, stats.DefaultSort[T]())
}

// ComparePairedWithSort is ComparePaired with an explicit sort strategy.
func ComparePairedWithSort[T stats.Number](before, after []T, highThreshold float64, sort stats.SortStrategy[T]) (*CompareResults, error) {
	if highThreshold <= LowThreshold || highThreshold > 1 {
		sklog.Warningf("High threshold %v is outside of (%v, 1]. Switching to default of %v", highThreshold, LowThreshold, DefaultHighThreshold)
		highThreshold = DefaultHighThreshold
	}

	if len(before) == 0 && len(after) == 0 {
		// There is nothing to compare. Return verdict to measure more data.
		return &CompareResults{Verdict: Unknown, LowThreshold: LowThreshold, HighThreshold: highThreshold}, nil
	}

	res, err := stats.PairedWithSort(before, after, sort)
	if errors.Is(err, stats.ErrInvalidDistributionParameters) && len(before) > 0 {
		// Every pair is identical, there is no signed difference at all.
		return &CompareResults{
			Verdict:       Same,
			PValue:        1,
			LowThreshold:  LowThreshold,
			HighThreshold: highThreshold,
		}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "Failed signed-rank test")
	}

	neg, pos := res.Estimate()
	result := &CompareResults{
		PValue:        res.PValue(),
		EffectSize:    res.EffectSize(),
		Estimate:      [2]float64{neg, pos},
		LowThreshold:  LowThreshold,
		HighThreshold: highThreshold,
	}
	result.Verdict = verdictFor(result.PValue, LowThreshold, highThreshold)
	return result, nil
}

func verdictFor(pValue, low, high float64) Verdict {
	if pValue <= low {
		// The p-value is less than the significance level. Reject the null
		// hypothesis.
		return Different
	} else if pValue <= high {
		// The p-value is not less than the significance level, but it's small
		// enough to be suspicious. We'd like to investigate more closely.
		return Unknown
	}
	// The p-value is quite large. We're not suspicious that the differences
	// are skewed, and we don't care to investigate more.
	return Same
}
