package sysloadbench

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"sysloadbench/internal/plotting"
	"sysloadbench/internal/protocol"
	"sysloadbench/internal/report"
	"sysloadbench/stats"
)

// Run executes benchmark runs and keeps their statistics, keyed by unique
// run name. Runs execute strictly sequentially: concurrent BenchmarkRun
// calls on one Run would contend for CPU and memory and invalidate each
// other's measurements, so they serialize.
type Run struct {
	mu        sync.Mutex
	benchmark string
	results   map[string]stats.RunStats
	executor  *runExecutor
}

// NewRun returns an empty Run.
func NewRun() *Run {
	return &Run{
		results:  make(map[string]stats.RunStats),
		executor: newRunExecutor(),
	}
}

// BenchmarkRun executes one run in an isolated worker process and stores its
// statistics. It returns a ConfigError for an invalid config, a
// DuplicateRunError when the name was already used, and an ExecutionError or
// RunTimeoutError when the run fails; in the failure cases the statistics of
// the rounds completed before the failure are stored and stay retrievable.
// On success the summary table is printed to stdout.
func (r *Run) BenchmarkRun(cfg RunConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.results[cfg.Name]; exists {
		return &DuplicateRunError{Name: cfg.Name}
	}

	slog.Info("starting run", "run", cfg.Name, "benchmark", cfg.Benchmark, "rounds", cfg.Rounds)

	rounds, runErr := r.executor.execute(cfg)

	if len(rounds) > 0 {
		rs, err := collectStats(rounds)
		if err != nil {
			if runErr != nil {
				return runErr
			}
			return fmt.Errorf("aggregate results of run %q: %w", cfg.Name, err)
		}
		r.results[cfg.Name] = rs
	}

	if runErr != nil {
		return runErr
	}

	slog.Info("run finished", "run", cfg.Name, "rounds", len(rounds))
	fmt.Println(report.RunTable(cfg.Name, r.results[cfg.Name]))
	return nil
}

// RunStatistics returns a deep copy of the statistics stored for name, or a
// RunNotFoundError.
func (r *Run) RunStatistics(name string) (stats.RunStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs, ok := r.results[name]
	if !ok {
		return stats.RunStats{}, &RunNotFoundError{Name: name}
	}
	return rs.Clone(), nil
}

// CreateGraphs renders the duration, CPU and RAM charts for the named run
// into dir, creating it if needed.
func (r *Run) CreateGraphs(name, dir string) error {
	rs, err := r.RunStatistics(name)
	if err != nil {
		return err
	}
	return plotting.WriteRunCharts(rs, dir, r.benchmark, name)
}

// Names returns the names of all runs with stored statistics, sorted.
func (r *Run) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.results))
	for name := range r.results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// statistics returns a deep copy of every stored result.
func (r *Run) statistics() map[string]stats.RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]stats.RunStats, len(r.results))
	for name, rs := range r.results {
		out[name] = rs.Clone()
	}
	return out
}

func collectStats(rounds []protocol.RoundData) (stats.RunStats, error) {
	durations := make([]float64, len(rounds))
	cpu := make([][]float64, len(rounds))
	ram := make([][]float64, len(rounds))
	for i, rd := range rounds {
		durations[i] = rd.Duration
		cpu[i] = rd.CPU.Values()
		ram[i] = rd.RAM.Values()
	}
	return stats.NewRunStats(durations, cpu, ram)
}
