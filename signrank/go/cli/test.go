package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/pairedstats/infra/go/urfavecli"
	"github.com/pairedstats/infra/signrank/go/compare"
	"github.com/pairedstats/infra/signrank/go/ingest"
	"github.com/pairedstats/infra/signrank/go/stats"
)

// TestCommand returns the "test" subcommand, which runs the signed-rank test
// on one set of pairs.
func TestCommand() *cli.Command {
	return &cli.Command{
		Name:      "test",
		Usage:     "Run the Wilcoxon signed-rank test on paired samples.",
		ArgsUsage: "[pairs.csv]",
		Description: "Reads x,y pairs from a two column CSV file, or from the --x and --y lists, " +
			"and prints the rank sums, p-value, effect size and verdict.",
		Flags: []cli.Flag{
			configFlag,
			sortFlag,
			&cli.StringFlag{
				Name:  kindFlagName,
				Value: floatKind,
				Usage: "Numeric kind of the samples, 'float' or 'int'.",
			},
			&cli.Float64Flag{
				Name:  highThresholdFlagName,
				Usage: "p-values at or below this, but above 0.01, give an 'unknown' verdict.",
			},
			&cli.StringFlag{
				Name:  xFlagName,
				Usage: "Comma separated x values, used when no file is given.",
			},
			&cli.StringFlag{
				Name:  yFlagName,
				Usage: "Comma separated y values, used when no file is given.",
			},
		},
		Action: testAction,
	}
}

func testAction(c *cli.Context) error {
	urfavecli.LogFlags(c)
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet(highThresholdFlagName) {
		cfg.HighThreshold = c.Float64(highThresholdFlagName)
	}

	var res *compare.CompareResults
	var n int
	switch kind := c.String(kindFlagName); kind {
	case floatKind:
		res, n, err = runTest(c, cfg.Sort, cfg.HighThreshold, ingest.ParseFloat64)
	case intKind:
		res, n, err = runTest(c, cfg.Sort, cfg.HighThreshold, ingest.ParseInt64)
	default:
		return errors.Errorf("unknown --%s %q, want %q or %q", kindFlagName, kind, floatKind, intKind)
	}
	if err != nil {
		return err
	}
	return writeTestResult(c.App.Writer, n, res)
}

func runTest[T stats.Radixable](c *cli.Context, sortName string, highThreshold float64, parse func(string) (T, error)) (*compare.CompareResults, int, error) {
	sortStrategy, err := stats.SortStrategyByName[T](sortName)
	if err != nil {
		return nil, 0, err
	}
	var x, y []T
	switch {
	case c.NArg() == 1:
		x, y, err = ingest.ReadPairsFromFile(c.Args().First(), parse)
	case c.NArg() == 0 && c.IsSet(xFlagName) && c.IsSet(yFlagName):
		if x, err = parseList(c.String(xFlagName), parse); err != nil {
			return nil, 0, errors.Wrapf(err, "--%s", xFlagName)
		}
		y, err = parseList(c.String(yFlagName), parse)
		err = errors.Wrapf(err, "--%s", yFlagName)
	default:
		return nil, 0, errors.Errorf("want a single CSV file or both --%s and --%s", xFlagName, yFlagName)
	}
	if err != nil {
		return nil, 0, err
	}
	res, err := compare.ComparePairedWithSort(x, y, highThreshold, sortStrategy)
	if err != nil {
		return nil, 0, err
	}
	return res, len(x), nil
}

func writeTestResult(w io.Writer, n int, res *compare.CompareResults) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"n", "W-", "W+", "p-value", "effect size", "verdict"})
	table.Append([]string{
		humanize.Comma(int64(n)),
		strconv.FormatFloat(res.Estimate[0], 'g', -1, 64),
		strconv.FormatFloat(res.Estimate[1], 'g', -1, 64),
		fmt.Sprintf("%.6g", res.PValue),
		fmt.Sprintf("%.4f", res.EffectSize),
		res.Verdict.String(),
	})
	table.Render()
	return nil
}
