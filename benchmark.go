package sysloadbench

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sysloadbench/internal/notify"
	"sysloadbench/internal/results"
	"sysloadbench/stats"
	"sysloadbench/sysinfo"
)

var (
	benchmarksMu sync.Mutex
	benchmarks   = make(map[string]bool)
)

// Benchmark groups runs under one name, carries the host metadata gathered
// at creation, and persists results and graphs as one document.
type Benchmark struct {
	name     string
	run      *Run
	info     sysinfo.Info
	notifier *notify.Manager
}

// NewBenchmark creates a benchmark and gathers the host metadata saved with
// its results. Benchmark names are unique within the process; reuse returns
// a DuplicateBenchmarkError.
func NewBenchmark(name string) (*Benchmark, error) {
	if name == "" {
		return nil, &ConfigError{Field: "Name", Reason: "must not be empty"}
	}

	benchmarksMu.Lock()
	defer benchmarksMu.Unlock()
	if benchmarks[name] {
		return nil, &DuplicateBenchmarkError{Name: name}
	}
	benchmarks[name] = true

	run := NewRun()
	run.benchmark = name

	return &Benchmark{
		name:     name,
		run:      run,
		info:     sysinfo.Gather(),
		notifier: notify.NewManager(),
	}, nil
}

// Name returns the benchmark's name.
func (b *Benchmark) Name() string { return b.name }

// AddRun executes one run as part of this benchmark. Same contract as
// Run.BenchmarkRun.
func (b *Benchmark) AddRun(cfg RunConfig) error {
	return b.run.BenchmarkRun(cfg)
}

// RunStatistics returns the statistics of one run of this benchmark.
func (b *Benchmark) RunStatistics(name string) (stats.RunStats, error) {
	return b.run.RunStatistics(name)
}

// Statistics returns the statistics of every run with stored results, keyed
// by run name. Runs that failed mid-way appear with the rounds they
// completed.
func (b *Benchmark) Statistics() map[string]stats.RunStats {
	return b.run.statistics()
}

// SysInfo returns the host metadata gathered when the benchmark was created.
func (b *Benchmark) SysInfo() sysinfo.Info { return b.info }

// SaveResults writes results.json, the per-run graphs and a history entry
// under path/<hostname>/. An empty path defaults to
// ./sysloadbench_results/<benchmark>. Existing results at the same location
// are overwritten; a benchmark without any stored results saves nothing.
func (b *Benchmark) SaveResults(path string) error {
	all := b.run.statistics()
	if len(all) == 0 {
		return nil
	}

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve default results path: %w", err)
		}
		path = filepath.Join(wd, "sysloadbench_results", b.name)
	}
	dir := filepath.Join(path, b.info.Hostname)

	doc := results.Document{
		SavedAt:    time.Now().UTC(),
		Benchmark:  b.name,
		System:     b.info,
		RunResults: all,
	}
	if err := results.Save(doc, dir); err != nil {
		return err
	}

	history, err := results.NewFileHistory(filepath.Join(dir, "history.json"))
	if err != nil {
		return err
	}
	if err := history.Append(doc); err != nil {
		return err
	}

	for _, name := range b.run.Names() {
		graphDir := filepath.Join(dir, "graphs", name)
		if err := b.run.CreateGraphs(name, graphDir); err != nil {
			return fmt.Errorf("graphs for run %q: %w", name, err)
		}
	}

	slog.Info("benchmark results saved", "benchmark", b.name, "runs", len(all), "path", dir)
	b.notifier.BenchmarkSaved(b.name, dir, len(all))
	return nil
}
