// Package plotting renders the per-run charts saved next to every results
// document: round durations, CPU utilization and resident memory, each as a
// PNG with the cross-round aggregates drawn as reference lines.
package plotting

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sysloadbench/stats"
)

// mib scales RAM byte values for plotting.
const mib = 1024.0 * 1024.0

var (
	blue    = color.RGBA{B: 255, A: 255}
	red     = color.RGBA{R: 255, A: 255}
	yellow  = color.RGBA{R: 220, G: 190, A: 255}
	cyan    = color.RGBA{G: 180, B: 200, A: 255}
	magenta = color.RGBA{R: 200, B: 200, A: 255}
	band    = color.RGBA{R: 200, G: 200, B: 255, A: 255}
)

// integerTicks marks every whole round number on the X axis.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i := int(math.Ceil(min)); i <= int(math.Floor(max)); i++ {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
	}
	return ticks
}

// WriteRunCharts renders time.png, cpu.png and ram.png for one run into
// dir, creating it if needed. benchmark and run, when non-empty, prefix the
// file names so charts of different runs can share a directory.
func WriteRunCharts(rs stats.RunStats, dir, benchmark, run string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create graph directory %s: %w", dir, err)
	}

	if err := timeChart(rs.Duration, filepath.Join(dir, chartName("time.png", benchmark, run))); err != nil {
		return fmt.Errorf("time chart: %w", err)
	}
	if err := metricChart(rs.CPU, "CPU Statistics", "Percent", 1, filepath.Join(dir, chartName("cpu.png", benchmark, run))); err != nil {
		return fmt.Errorf("cpu chart: %w", err)
	}
	if err := metricChart(rs.RAM, "RAM Statistics", "Mebibytes", mib, filepath.Join(dir, chartName("ram.png", benchmark, run))); err != nil {
		return fmt.Errorf("ram chart: %w", err)
	}
	return nil
}

func chartName(base, benchmark, run string) string {
	if run != "" {
		base = run + "_" + base
	}
	if benchmark != "" {
		base = benchmark + "_" + base
	}
	return base
}

// timeChart plots the raw round durations with a stddev band and the
// cross-round percentile, mean and maximum reference lines.
func timeChart(d stats.DurationStats, path string) error {
	p := newChart("Time Statistics", "Seconds")

	addBand(p, d.Raw, d.Total.StdDev, 1)

	if err := addSeries(p, "Raw Times", d.Raw, 1, blue, false); err != nil {
		return err
	}
	n := len(d.Raw)
	if err := addRule(p, "25th Percentile", d.Total.Percentiles[25], n, yellow); err != nil {
		return err
	}
	if err := addRule(p, "Mean", d.Total.Mean, n, magenta); err != nil {
		return err
	}
	if err := addRule(p, "75th Percentile", d.Total.Percentiles[75], n, cyan); err != nil {
		return err
	}
	if err := addRule(p, "Maximum Value", d.Total.Max, n, red); err != nil {
		return err
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// metricChart plots the per-round aggregates of a sampled metric against
// the cross-round reference lines. factor divides every value (MiB scaling
// for RAM).
func metricChart(m stats.MetricStats, title, unit string, factor float64, path string) error {
	p := newChart(title, unit)

	n := len(m.PerRound)
	means := make([]float64, n)
	p25 := make([]float64, n)
	p75 := make([]float64, n)
	maxs := make([]float64, n)
	for i, s := range m.PerRound {
		means[i] = s.Mean
		p25[i] = s.Percentiles[25]
		p75[i] = s.Percentiles[75]
		maxs[i] = s.Max
	}

	addBand(p, means, m.Total.StdDev, factor)

	for _, series := range []struct {
		label  string
		values []float64
		rule   float64
		color  color.RGBA
	}{
		{"Mean of Round", means, m.Total.Mean, blue},
		{"25th Percentile of Round", p25, m.Total.Percentiles[25], yellow},
		{"75th Percentile of Round", p75, m.Total.Percentiles[75], cyan},
		{"Maximum Value of Round", maxs, m.Total.Max, red},
	} {
		if err := addSeries(p, series.label, series.values, factor, series.color, false); err != nil {
			return err
		}
		if err := addRule(p, series.label+" Overall", series.rule/factor, n, series.color); err != nil {
			return err
		}
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

func newChart(title, unit string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Round"
	p.Y.Label.Text = unit
	p.X.Tick.Marker = integerTicks{}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.XOffs = -10
	return p
}

// addSeries draws values over rounds 1..n, divided by factor.
func addSeries(p *plot.Plot, label string, values []float64, factor float64, c color.RGBA, dashed bool) error {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i + 1)
		pts[i].Y = v / factor
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(2)
	if dashed {
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

// addRule draws a dashed horizontal reference line across all n rounds.
func addRule(p *plot.Plot, label string, value float64, n int, c color.RGBA) error {
	values := make([]float64, n)
	for i := range values {
		values[i] = value
	}
	return addSeries(p, label, values, 1, c, true)
}

// addBand shades values ± stddev. A degenerate polygon (single round) is
// simply skipped.
func addBand(p *plot.Plot, values []float64, stddev, factor float64) {
	pts := make(plotter.XYs, 0, 2*len(values))
	for i := len(values) - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: (values[i] - stddev) / factor})
	}
	for i := 0; i < len(values); i++ {
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: (values[i] + stddev) / factor})
	}
	if poly, err := plotter.NewPolygon(pts); err == nil {
		poly.Color = band
		p.Add(poly)
	}
}
