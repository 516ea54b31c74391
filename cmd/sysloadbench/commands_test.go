package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysloadbench/internal/results"
	"sysloadbench/stats"
	"sysloadbench/sysinfo"
)

func writeDoc(t *testing.T, dir string, benchmark string, durations []float64) string {
	t.Helper()

	cpu := make([][]float64, len(durations))
	ram := make([][]float64, len(durations))
	for i := range durations {
		cpu[i] = []float64{50, 60}
		ram[i] = []float64{2 * 1024 * 1024}
	}
	rs, err := stats.NewRunStats(durations, cpu, ram)
	require.NoError(t, err)

	doc := results.Document{
		SavedAt:    time.Now().UTC(),
		Benchmark:  benchmark,
		System:     sysinfo.Info{Hostname: "bench-01"},
		RunResults: map[string]stats.RunStats{"parse": rs},
	}
	require.NoError(t, results.Save(doc, dir))
	return filepath.Join(dir, results.FileName)
}

func TestCompareDocs(t *testing.T) {
	t.Run("pass within threshold", func(t *testing.T) {
		old := writeDoc(t, t.TempDir(), "b", []float64{0.10, 0.10})
		curr := writeDoc(t, t.TempDir(), "b", []float64{0.10, 0.11})

		var out bytes.Buffer
		err := compareDocs(&out, old, curr, 10.0)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "PASS")
		assert.Contains(t, out.String(), "parse")
	})

	t.Run("regression beyond threshold fails", func(t *testing.T) {
		old := writeDoc(t, t.TempDir(), "b", []float64{0.10, 0.10})
		curr := writeDoc(t, t.TempDir(), "b", []float64{0.20, 0.20})

		var out bytes.Buffer
		err := compareDocs(&out, old, curr, 10.0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse")
		assert.Contains(t, out.String(), "FAIL")
	})

	t.Run("improvement is reported, not failed", func(t *testing.T) {
		old := writeDoc(t, t.TempDir(), "b", []float64{0.20, 0.20})
		curr := writeDoc(t, t.TempDir(), "b", []float64{0.10, 0.10})

		var out bytes.Buffer
		require.NoError(t, compareDocs(&out, old, curr, 10.0))
		assert.Contains(t, out.String(), "IMPR")
	})

	t.Run("missing file", func(t *testing.T) {
		var out bytes.Buffer
		err := compareDocs(&out, "/does/not/exist.json", "/neither.json", 10.0)
		assert.Error(t, err)
	})
}

func TestWriteReport(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "nightly", []float64{0.1, 0.12})

	t.Run("table output", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeReport(&out, path, false))
		assert.Contains(t, out.String(), "Benchmark: nightly")
		assert.Contains(t, out.String(), "Results for run: parse")
	})

	t.Run("markdown output", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeReport(&out, path, true))
		assert.Contains(t, out.String(), "nightly")
		assert.Contains(t, out.String(), "parse")
	})
}

func TestResolveResultsPath(t *testing.T) {
	t.Run("single document in tree", func(t *testing.T) {
		dir := t.TempDir()
		path := writeDoc(t, filepath.Join(dir, "b", "host"), "b", []float64{0.1})

		got, err := resolveResultsPath(dir)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("several documents use the picker", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, filepath.Join(dir, "a", "host"), "a", []float64{0.1})
		want := writeDoc(t, filepath.Join(dir, "b", "host"), "b", []float64{0.1})

		orig := selectPath
		defer func() { selectPath = orig }()
		var offered []string
		selectPath = func(paths []string) (string, error) {
			offered = paths
			return paths[1], nil
		}

		got, err := resolveResultsPath(dir)
		require.NoError(t, err)
		assert.Len(t, offered, 2)
		assert.Equal(t, want, got)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := resolveResultsPath(t.TempDir())
		assert.ErrorContains(t, err, "no results.json")
	})
}

func TestWriteGraphs(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "nightly", []float64{0.1, 0.12, 0.11})
	out := filepath.Join(t.TempDir(), "charts")

	var buf bytes.Buffer
	require.NoError(t, writeGraphs(&buf, path, out))

	_, err := os.Stat(filepath.Join(out, "parse", "nightly_parse_time.png"))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `run "parse"`)
}

func TestWriteSysInfo(t *testing.T) {
	var out bytes.Buffer
	writeSysInfo(&out, sysinfo.Info{
		GoVersion: "go1.25.0",
		Platform:  "linux-6.8-x86_64",
		OS:        "debian 13",
		Hostname:  "bench-01",
		CPU:       "test cpu",
		RAM:       "16.0000 GB",
	})

	assert.Contains(t, out.String(), "go1.25.0")
	assert.Contains(t, out.String(), "bench-01")
	// GPU line only appears when a GPU was detected.
	assert.NotContains(t, out.String(), "GPU:")
}

func TestViewCommandUsesConfiguredDir(t *testing.T) {
	orig := browseResults
	defer func() { browseResults = orig }()

	var gotDir string
	browseResults = func(dir string) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, viewCmd.RunE(viewCmd, []string{"/data/results"}))
	assert.Equal(t, "/data/results", gotDir)
}
