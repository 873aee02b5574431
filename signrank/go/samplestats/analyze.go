// Package samplestats runs the Wilcoxon signed-rank test over sets of named
// traces, e.g. the before and after runs of a benchmark suite, and reports
// which traces changed significantly.
package samplestats

import (
	"context"
	"math"
	"runtime"
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pairedstats/infra/go/sklog"
	"github.com/pairedstats/infra/signrank/go/ingest"
	"github.com/pairedstats/infra/signrank/go/stats"
)

// DefaultAlpha is used when Config.Alpha is not set.
const DefaultAlpha = 0.05

// Config controls Analyze.
type Config struct {
	// Alpha is the significance level, a change is significant if p < Alpha.
	Alpha float64

	// All includes insignificant rows in the Result.
	All bool

	// Order sorts the rows. Defaults to ByName.
	Order Order

	// Sort names the SortStrategy, "default" or "radix".
	Sort string

	// Concurrency bounds the number of traces tested at once. Defaults to
	// GOMAXPROCS.
	Concurrency int
}

// Row is the result of testing one trace.
type Row struct {
	// Name of the trace.
	Name string

	// Params of the trace, taken from the before sample.
	Params map[string]string

	// Samples are the before and after metrics.
	Samples [2]Metrics

	// Delta is the percentage change of the mean, or NaN if the change is not
	// significant.
	Delta float64

	// P is the p-value of the signed-rank test.
	P float64

	// EffectSize is the smaller rank sum normalized by n(n+1)/2.
	EffectSize float64

	// Estimate holds the rank sums of negative and positive differences.
	Estimate [2]float64

	// Note explains why a row has no test result.
	Note string
}

// Result of Analyze.
type Result struct {
	Rows []Row

	// Skipped is the number of traces that could not be tested, such as
	// traces missing from one side or with unequal numbers of values.
	Skipped int
}

// Analyze tests every trace in before against the trace of the same name in
// after. Values are paired by index.
func Analyze(ctx context.Context, config Config, before, after map[string]ingest.Samples) (Result, error) {
	if config.Alpha <= 0 || config.Alpha >= 1 {
		config.Alpha = DefaultAlpha
	}
	if config.Order == nil {
		config.Order = ByName
	}
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.GOMAXPROCS(0)
	}
	sortStrategy, err := stats.SortStrategyByName[float64](config.Sort)
	if err != nil {
		return Result{}, err
	}

	ret := Result{}
	names := []string{}
	for name, b := range before {
		a, ok := after[name]
		switch {
		case !ok:
			sklog.Warningf("Trace %q is missing from the after samples.", name)
			ret.Skipped++
		case len(a.Values) != len(b.Values):
			sklog.Warningf("Trace %q has %d before and %d after values.", name, len(b.Values), len(a.Values))
			ret.Skipped++
		case len(b.Values) == 0:
			sklog.Warningf("Trace %q has no values.", name)
			ret.Skipped++
		default:
			names = append(names, name)
		}
	}
	for name := range after {
		if _, ok := before[name]; !ok {
			sklog.Warningf("Trace %q is missing from the before samples.", name)
			ret.Skipped++
		}
	}
	slices.Sort(names)

	rows := make([]Row, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := analyzeTrace(name, before[name], after[name], config.Alpha, sortStrategy)
			if err != nil {
				return errors.Wrapf(err, "analyzing trace %q", name)
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	for _, row := range rows {
		if config.All || row.P < config.Alpha {
			ret.Rows = append(ret.Rows, row)
		}
	}
	slices.SortStableFunc(ret.Rows, config.Order)
	return ret, nil
}

func analyzeTrace(name string, before, after ingest.Samples, alpha float64, sortStrategy stats.SortStrategy[float64]) (Row, error) {
	row := Row{
		Name:   name,
		Params: before.Params,
		Samples: [2]Metrics{
			calculateMetrics(before.Values),
			calculateMetrics(after.Values),
		},
		Delta: math.NaN(),
	}

	res, err := stats.PairedWithSort(before.Values, after.Values, sortStrategy)
	if errors.Is(err, stats.ErrInvalidDistributionParameters) {
		row.P = 1
		row.Note = "all samples are equal"
		return row, nil
	}
	if err != nil {
		return row, err
	}
	neg, pos := res.Estimate()
	row.P = res.PValue()
	row.EffectSize = res.EffectSize()
	row.Estimate = [2]float64{neg, pos}
	if row.P < alpha && row.Samples[0].Mean != 0 {
		row.Delta = (row.Samples[1].Mean/row.Samples[0].Mean - 1) * 100
	}
	return row, nil
}
