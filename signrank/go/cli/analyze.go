package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/pairedstats/infra/go/util"
	"github.com/pairedstats/infra/go/urfavecli"
	"github.com/pairedstats/infra/signrank/go/ingest"
	"github.com/pairedstats/infra/signrank/go/samplestats"
)

// AnalyzeCommand returns the "analyze" subcommand, which compares two trace
// set files trace by trace.
func AnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Compare the traces of two runs with the signed-rank test.",
		ArgsUsage: "before.(json|yaml) after.(json|yaml)",
		Flags: []cli.Flag{
			configFlag,
			sortFlag,
			&cli.Float64Flag{
				Name:  alphaFlagName,
				Usage: "Consider a change significant if p < alpha.",
			},
			&cli.StringFlag{
				Name:  orderFlagName,
				Value: "delta",
				Usage: "Sort rows by `order`: [-]delta, [-]name or [-]p.",
			},
			&cli.BoolFlag{
				Name:  allFlagName,
				Usage: "Include insignificant changes in the output.",
			},
			&cli.IntFlag{
				Name:  concurrencyFlagName,
				Usage: "Number of traces tested at once. 0 means GOMAXPROCS.",
			},
			&cli.StringFlag{
				Name:  jsonOutFlagName,
				Usage: "Also write the rows as JSON to this file.",
			},
		},
		Action: analyzeAction,
	}
}

func analyzeAction(c *cli.Context) error {
	urfavecli.LogFlags(c)
	if c.NArg() != 2 {
		return errors.New("want exactly two trace set files, before and after")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet(alphaFlagName) {
		cfg.Alpha = c.Float64(alphaFlagName)
	}
	if c.IsSet(concurrencyFlagName) {
		cfg.Concurrency = c.Int(concurrencyFlagName)
	}
	order, err := samplestats.OrderByName(c.String(orderFlagName))
	if err != nil {
		return err
	}

	before, err := ingest.ReadSamplesFromFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	after, err := ingest.ReadSamplesFromFile(c.Args().Get(1))
	if err != nil {
		return err
	}

	config := samplestats.Config{
		Alpha:       cfg.Alpha,
		All:         c.Bool(allFlagName),
		Order:       order,
		Sort:        cfg.Sort,
		Concurrency: cfg.Concurrency,
	}
	result, err := samplestats.Analyze(c.Context, config, before, after)
	if err != nil {
		return err
	}

	if path := c.String(jsonOutFlagName); path != "" {
		err := util.WithWriteFile(path, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(jsonRows(result.Rows))
		})
		if err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return writeAnalysis(c.App.Writer, config.All, result)
}

// jsonRow is a samplestats.Row that survives JSON encoding, Delta is null
// when it is NaN.
type jsonRow struct {
	Name     string            `json:"name"`
	Params   map[string]string `json:"params"`
	Before   []float64         `json:"before"`
	After    []float64         `json:"after"`
	Delta    *float64          `json:"delta"`
	P        float64           `json:"p_value"`
	Estimate [2]float64        `json:"estimate"`
	Note     string            `json:"note,omitempty"`
}

func jsonRows(rows []samplestats.Row) []jsonRow {
	ret := make([]jsonRow, 0, len(rows))
	for _, row := range rows {
		jr := jsonRow{
			Name:     row.Name,
			Params:   row.Params,
			Before:   row.Samples[0].Values,
			After:    row.Samples[1].Values,
			P:        row.P,
			Estimate: row.Estimate,
			Note:     row.Note,
		}
		if !math.IsNaN(row.Delta) {
			delta := row.Delta
			jr.Delta = &delta
		}
		ret = append(ret, jr)
	}
	return ret
}

func writeAnalysis(w io.Writer, all bool, result samplestats.Result) error {
	if result.Skipped > 0 {
		if _, err := fmt.Fprintf(w, "Skipped: %d\n", result.Skipped); err != nil {
			return errors.Wrap(err, "writing output")
		}
	}
	if len(result.Rows) == 0 {
		if !all {
			_, err := fmt.Fprintln(w, "No significant deltas found. Add --all to see non-significant results.")
			return errors.Wrap(err, "writing output")
		}
		return nil
	}

	keys := importantKeys(result.Rows)
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader(append([]string{"old", "new", "delta", "stats"}, keys...))
	for _, row := range result.Rows {
		delta := "~"
		if !math.IsNaN(row.Delta) {
			delta = fmt.Sprintf("%.0f%%", row.Delta)
		}
		if row.Note != "" {
			delta += " " + row.Note
		}
		line := []string{
			fmt.Sprintf("%0.2f ± %2.0f%%", row.Samples[0].Mean, row.Samples[0].Percent),
			fmt.Sprintf("%0.2f ± %2.0f%%", row.Samples[1].Mean, row.Samples[1].Percent),
			delta,
			fmt.Sprintf("(p=%0.3f, n=%d)", row.P, len(row.Samples[0].Values)),
		}
		for _, key := range keys {
			if key == "name" {
				line = append(line, row.Name)
				continue
			}
			line = append(line, row.Params[key])
		}
		table.Append(line)
	}
	table.Render()
	return nil
}

// importantKeys returns the param keys whose values differ between rows,
// sorted, followed by "name".
func importantKeys(rows []samplestats.Row) []string {
	values := map[string]map[string]bool{}
	for _, row := range rows {
		for k, v := range row.Params {
			if values[k] == nil {
				values[k] = map[string]bool{}
			}
			values[k][v] = true
		}
	}
	delete(values, "name")
	ret := []string{}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if len(values[key]) > 1 {
			ret = append(ret, key)
		}
	}
	return append(ret, "name")
}
