package sysloadbench

import (
	"fmt"
	"time"
)

// ConfigError reports an invalid RunConfig. It is returned before any worker
// process is started.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid run config: %s %s", e.Field, e.Reason)
}

// DuplicateRunError is returned when a run name is reused within one Run.
type DuplicateRunError struct {
	Name string
}

func (e *DuplicateRunError) Error() string {
	return fmt.Sprintf("run %q already executed", e.Name)
}

// DuplicateBenchmarkError is returned when a benchmark name is reused within
// the process.
type DuplicateBenchmarkError struct {
	Name string
}

func (e *DuplicateBenchmarkError) Error() string {
	return fmt.Sprintf("benchmark %q already exists", e.Name)
}

// RunNotFoundError is returned when statistics are requested for a run name
// that never executed.
type RunNotFoundError struct {
	Name string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("no results for run %q", e.Name)
}

// ExecutionError reports a failure inside the worker. Round is the 1-based
// index of the measured round that failed, or 0 when the failure happened
// before measured rounds (function resolution, setup, warmup, spawn).
// Results of rounds completed before the failure remain available.
type ExecutionError struct {
	Run     string
	Round   int
	Stage   string
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Round > 0 {
		return fmt.Sprintf("run %q failed in round %d (%s): %s", e.Run, e.Round, e.Stage, e.Message)
	}
	return fmt.Sprintf("run %q failed during %s: %s", e.Run, e.Stage, e.Message)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// RunTimeoutError is returned when a run exceeds its configured Timeout. The
// worker has been killed and reaped; Completed says how many measured rounds
// finished first, and their results remain available.
type RunTimeoutError struct {
	Name      string
	Timeout   time.Duration
	Completed int
}

func (e *RunTimeoutError) Error() string {
	return fmt.Sprintf("run %q exceeded timeout %s after %d completed rounds", e.Name, e.Timeout, e.Completed)
}
