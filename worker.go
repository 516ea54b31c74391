package sysloadbench

import (
	"fmt"
	"log/slog"
	"os"

	"sysloadbench/internal/protocol"
)

// Control channel descriptors inside the worker, matching the ExtraFiles
// order set up by the run executor.
const (
	ctlFd = 3
	resFd = 4
)

// runWorker drives one measurement session: handshake, receive the run
// spec, execute rounds, stream results. The return value becomes the process
// exit status. Benchmark failures exit 0: they were reported in-band, and a
// non-zero status is reserved for a broken control channel.
func runWorker() int {
	ctl := os.NewFile(ctlFd, "sysloadbench-control")
	res := os.NewFile(resFd, "sysloadbench-results")
	codec := protocol.NewCodec(ctl, res)

	if err := codec.Send(protocol.Message{Type: protocol.TypeHello, Pid: os.Getpid()}); err != nil {
		fmt.Fprintf(os.Stderr, "sysloadbench worker: %v\n", err)
		return 1
	}

	msg, err := codec.Receive()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysloadbench worker: read run spec: %v\n", err)
		return 1
	}
	if msg.Type != protocol.TypeSpec || msg.Spec == nil {
		fmt.Fprintf(os.Stderr, "sysloadbench worker: expected %s message, got %s\n", protocol.TypeSpec, msg.Type)
		return 1
	}

	w := &worker{codec: codec, spec: *msg.Spec}
	if err := w.run(); err != nil {
		fmt.Fprintf(os.Stderr, "sysloadbench worker: %v\n", err)
		return 1
	}
	return 0
}

// worker executes one run spec inside the worker process.
type worker struct {
	codec *protocol.Codec
	spec  protocol.RunSpec
}

// run resolves the configured functions, runs setup once, then warmup and
// measured rounds, streaming each measured result as it completes. The
// returned error only reflects control channel trouble; benchmark failures
// are sent as failure messages and return nil.
func (w *worker) run() error {
	slog.Debug("worker run starting",
		"run", w.spec.Name,
		"benchmark", w.spec.Benchmark,
		"rounds", w.spec.Rounds,
		"warmup_rounds", w.spec.WarmupRounds,
		"gc_active", w.spec.GCActive)

	benchmark, err := w.resolve(w.spec.Benchmark)
	if err != nil {
		return w.fail(protocol.Failure{Stage: protocol.StageResolve, Message: err.Error()})
	}
	var setup, prerun Func
	if w.spec.Setup != "" {
		if setup, err = w.resolve(w.spec.Setup); err != nil {
			return w.fail(protocol.Failure{Stage: protocol.StageResolve, Message: err.Error()})
		}
	}
	if w.spec.Prerun != "" {
		if prerun, err = w.resolve(w.spec.Prerun); err != nil {
			return w.fail(protocol.Failure{Stage: protocol.StageResolve, Message: err.Error()})
		}
	}

	params := Params(w.spec.Params)
	if setup != nil {
		if err := call(setup, params); err != nil {
			return w.fail(protocol.Failure{Stage: protocol.StageSetup, Message: err.Error()})
		}
	}

	r := &roundRunner{
		benchmark: benchmark,
		prerun:    prerun,
		params:    params,
		gcActive:  w.spec.GCActive,
	}

	for i := 0; i < w.spec.WarmupRounds; i++ {
		if f := r.warmup(); f != nil {
			return w.fail(*f)
		}
	}

	for round := 1; round <= w.spec.Rounds; round++ {
		data, f := r.measured(round)
		if f != nil {
			return w.fail(*f)
		}
		if err := w.codec.Send(protocol.Message{Type: protocol.TypeRound, Round: data}); err != nil {
			return err
		}
		slog.Debug("worker round complete", "run", w.spec.Name, "round", round, "duration", data.Duration)
	}

	return w.codec.Send(protocol.Message{Type: protocol.TypeDone})
}

func (w *worker) resolve(name string) (Func, error) {
	fn, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("function %q is not registered; Register it before calling Init", name)
	}
	return fn, nil
}

func (w *worker) fail(f protocol.Failure) error {
	return w.codec.Send(protocol.Message{Type: protocol.TypeFailure, Failure: &f})
}
