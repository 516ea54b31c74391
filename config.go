package sysloadbench

import "time"

// RunConfig describes one run: which registered functions to execute, how
// many rounds to measure and under what conditions.
type RunConfig struct {
	// Name identifies the run within its Run collection. Required, unique.
	Name string

	// Benchmark is the registered name of the function to measure. Required.
	Benchmark string

	// Setup is the registered name of a function executed once, before any
	// round. Optional.
	Setup string

	// Prerun is the registered name of a function executed before every
	// round, outside the measured section. Optional.
	Prerun string

	// Rounds is the number of measured rounds. At least 1.
	Rounds int

	// WarmupRounds is the number of unmeasured rounds executed before the
	// measured ones.
	WarmupRounds int

	// GCActive keeps the garbage collector enabled during the measured
	// section. When false the collector is forced once and then disabled
	// for the duration of the benchmark call.
	GCActive bool

	// Timeout bounds the whole run, from worker spawn to the final round.
	// Zero means no limit.
	Timeout time.Duration

	// Params is handed to setup, prerun and benchmark.
	Params Params
}

// NewRunConfig returns a RunConfig with the defaults: one round, no warmup,
// garbage collector active, no timeout.
func NewRunConfig(name, benchmark string) RunConfig {
	return RunConfig{
		Name:      name,
		Benchmark: benchmark,
		Rounds:    1,
		GCActive:  true,
	}
}

func (c RunConfig) validate() error {
	if c.Name == "" {
		return &ConfigError{Field: "Name", Reason: "must not be empty"}
	}
	if c.Benchmark == "" {
		return &ConfigError{Field: "Benchmark", Reason: "must not be empty"}
	}
	if c.Rounds < 1 {
		return &ConfigError{Field: "Rounds", Reason: "must be at least 1"}
	}
	if c.WarmupRounds < 0 {
		return &ConfigError{Field: "WarmupRounds", Reason: "must not be negative"}
	}
	if c.Timeout < 0 {
		return &ConfigError{Field: "Timeout", Reason: "must not be negative"}
	}
	return nil
}
