package sysloadbench

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"sysloadbench/internal/protocol"
	"sysloadbench/internal/sampler"
)

// roundRunner executes single rounds inside the worker process.
type roundRunner struct {
	benchmark Func
	prerun    Func
	params    Params
	gcActive  bool
}

// warmup runs one full but unmeasured round. Failures carry round index 0
// since no measured round exists yet.
func (r *roundRunner) warmup() *protocol.Failure {
	if r.prerun != nil {
		if err := call(r.prerun, r.params); err != nil {
			return &protocol.Failure{Stage: protocol.StagePrerun, Message: err.Error()}
		}
	}
	if err := call(r.benchmark, r.params); err != nil {
		return &protocol.Failure{Stage: protocol.StageBenchmark, Message: err.Error()}
	}
	return nil
}

// measured runs one measured round: the prerun hook outside the timed
// section, then the benchmark with sampling. round is 1-based.
func (r *roundRunner) measured(round int) (*protocol.RoundData, *protocol.Failure) {
	if r.prerun != nil {
		if err := call(r.prerun, r.params); err != nil {
			return nil, &protocol.Failure{Round: round, Stage: protocol.StagePrerun, Message: err.Error()}
		}
	}

	smp, err := sampler.New(int32(os.Getpid()))
	if err != nil {
		return nil, &protocol.Failure{Round: round, Stage: protocol.StageBenchmark, Message: fmt.Sprintf("sampler: %v", err)}
	}
	smp.Start()

	duration, err := r.measure()

	cpu, ram := smp.Stop()
	if err != nil {
		return nil, &protocol.Failure{Round: round, Stage: protocol.StageBenchmark, Message: err.Error()}
	}

	return &protocol.RoundData{
		Round:    round,
		Duration: duration.Seconds(),
		CPU:      cpu,
		RAM:      ram,
	}, nil
}

// measure times exactly the benchmark invocation. A collection pass is
// always forced first so carry-over garbage from earlier rounds is not
// charged to this one; with GCActive disabled the collector stays off for
// the timed section and is restored on every exit path.
func (r *roundRunner) measure() (time.Duration, error) {
	runtime.GC()
	if !r.gcActive {
		defer disableGC()()
	}

	start := time.Now()
	err := call(r.benchmark, r.params)
	return time.Since(start), err
}

// disableGC turns the garbage collector off and returns the function that
// restores the previous setting.
func disableGC() func() {
	prev := debug.SetGCPercent(-1)
	return func() { debug.SetGCPercent(prev) }
}

// call invokes fn with the run params, converting panics into errors so a
// failing function is reported as a round failure instead of tearing down
// the worker.
func call(fn Func, p Params) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(p)
}
