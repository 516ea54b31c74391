package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysloadbench/internal/results"
	"sysloadbench/stats"
	"sysloadbench/sysinfo"
)

func sampleRunStats(t *testing.T) stats.RunStats {
	t.Helper()
	rs, err := stats.NewRunStats(
		[]float64{0.1, 0.12, 0.11},
		[][]float64{{40, 60}, {55, 45}, {50, 50}},
		[][]float64{{1024, 2048}, {2048, 2048}, {1024, 1024}},
	)
	require.NoError(t, err)
	return rs
}

func TestRunTable(t *testing.T) {
	out := RunTable("parse", sampleRunStats(t))

	assert.Contains(t, out, "Results for run: parse")
	assert.Contains(t, out, "CPU (%)")
	assert.Contains(t, out, "RAM (Bytes)")
	assert.Contains(t, out, "Time (Seconds)")
	assert.Contains(t, out, "99th perc.")
	// Durations keep four decimals, metrics two.
	assert.Contains(t, out, "0.1200")
	assert.Contains(t, out, "60.00")
}

func TestMarkdown(t *testing.T) {
	doc := results.Document{
		SavedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Benchmark: "nightly",
		System:    sysinfo.Info{GoVersion: "go1.25.0", Hostname: "bench-01", CPU: "test cpu", RAM: "16.0000 GB"},
		RunResults: map[string]stats.RunStats{
			"parse": sampleRunStats(t),
		},
	}

	md := Markdown(doc)

	assert.Contains(t, md, "# Benchmark: nightly")
	assert.Contains(t, md, "- Host: bench-01")
	assert.Contains(t, md, "## Run: parse")
	assert.Contains(t, md, "Rounds: 3")
	assert.Contains(t, md, "| CPU (%) |")
	// No GPU line when the field is empty.
	assert.NotContains(t, md, "- GPU:")
}
