package samplestats

import (
	"gonum.org/v1/gonum/stat"
)

// Metrics are the summary statistics of one side of a trace.
type Metrics struct {
	Mean   float64
	StdDev float64
	Values []float64

	// Percent is the StdDev as a percentage of the Mean.
	Percent float64
}

func calculateMetrics(values []float64) Metrics {
	mean, stddev := stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		stddev = 0
	}
	percent := 0.0
	if mean != 0 {
		percent = stddev / mean * 100
	}
	return Metrics{
		Mean:    mean,
		StdDev:  stddev,
		Values:  values,
		Percent: percent,
	}
}
