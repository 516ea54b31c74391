// Package stats computes the aggregate statistics reported for benchmark
// runs: per-series summaries (max, mean, population standard deviation and a
// fixed percentile set) plus the per-round and cross-round groupings used in
// results documents.
package stats

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Percentiles is the fixed set of percentile ranks included in every summary.
var Percentiles = []int{25, 50, 75, 90, 95, 99}

// StatSummary aggregates a single series of measurements.
type StatSummary struct {
	Max         float64         `json:"max"`
	Mean        float64         `json:"mean"`
	StdDev      float64         `json:"std"`
	Percentiles map[int]float64 `json:"percentiles"`
}

// Summarize reduces values to a StatSummary, rounding every field to the
// given number of decimal places. The standard deviation is the population
// form, so a single-element series yields zero. Summarizing an empty series
// is an error.
func Summarize(values []float64, decimals int) (StatSummary, error) {
	if len(values) == 0 {
		return StatSummary{}, fmt.Errorf("cannot summarize empty series")
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s := StatSummary{
		Max:         roundTo(floats.Max(sorted), decimals),
		Mean:        roundTo(stat.Mean(sorted, nil), decimals),
		StdDev:      roundTo(stat.PopStdDev(sorted, nil), decimals),
		Percentiles: make(map[int]float64, len(Percentiles)),
	}
	for _, p := range Percentiles {
		s.Percentiles[p] = roundTo(quantile(sorted, float64(p)/100), decimals)
	}
	return s, nil
}

// quantile returns the q-quantile (0..1) of an already sorted series using
// linear interpolation between the two nearest order statistics.
func quantile(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	l := int(math.Floor(pos))
	r := int(math.Ceil(pos))
	if l == r {
		return sorted[l]
	}
	frac := pos - float64(l)
	return sorted[l]*(1-frac) + sorted[r]*frac
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
