package sysloadbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"sysloadbench/internal/protocol"
	"sysloadbench/internal/telemetry"
)

// runExecutor spawns one worker process per run and collects the results it
// streams back.
type runExecutor struct {
	logger *slog.Logger
}

func newRunExecutor() *runExecutor {
	return &runExecutor{logger: slog.Default()}
}

// execute runs cfg in a freshly spawned copy of this binary. The returned
// rounds hold everything streamed before the run ended, so on failure they
// contain the rounds completed up to the failure point. The worker is always
// reaped before execute returns.
func (e *runExecutor) execute(cfg RunConfig) ([]protocol.RoundData, error) {
	ctx := context.Background()
	var cancel context.CancelFunc
	if cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	self, err := os.Executable()
	if err != nil {
		return nil, &ExecutionError{Run: cfg.Name, Stage: "spawn", Message: "locate own executable", Err: err}
	}

	// Two dedicated pipes form the control channel; stdin/stdout/stderr stay
	// with the user's code. The worker sees them as fds 3 and 4.
	ctlR, ctlW, err := os.Pipe()
	if err != nil {
		return nil, &ExecutionError{Run: cfg.Name, Stage: "spawn", Message: "create control pipe", Err: err}
	}
	resR, resW, err := os.Pipe()
	if err != nil {
		ctlR.Close()
		ctlW.Close()
		return nil, &ExecutionError{Run: cfg.Name, Stage: "spawn", Message: "create result pipe", Err: err}
	}
	defer ctlW.Close()
	defer resR.Close()

	cmd := exec.CommandContext(ctx, self)
	cmd.Env = append(os.Environ(), workerEnv+"=1")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{ctlR, resW}

	e.logger.Debug("spawning worker", "run", cfg.Name, "executable", self)
	if err := cmd.Start(); err != nil {
		ctlR.Close()
		resW.Close()
		return nil, &ExecutionError{Run: cfg.Name, Stage: "spawn", Message: "start worker process", Err: err}
	}
	// The worker owns these ends now; keeping them open here would mask the
	// EOF that signals worker death.
	ctlR.Close()
	resW.Close()

	codec := protocol.NewCodec(resR, ctlW)
	rounds, runErr := e.stream(codec, cfg)

	waitErr := cmd.Wait()

	switch {
	case runErr == nil && waitErr == nil:
		telemetry.TrackRun(telemetry.RunStatusOK)
		return rounds, nil

	case runErr == nil:
		// Stream ended cleanly but the worker still exited non-zero.
		telemetry.TrackRun(telemetry.RunStatusFailed)
		return rounds, &ExecutionError{
			Run:     cfg.Name,
			Stage:   "worker",
			Message: fmt.Sprintf("worker exited with error after completing all rounds: %v", waitErr),
			Err:     waitErr,
		}

	case errors.Is(runErr, io.EOF):
		if ctx.Err() == context.DeadlineExceeded {
			e.logger.Warn("worker timed out", "run", cfg.Name, "timeout", cfg.Timeout, "completed_rounds", len(rounds))
			telemetry.TrackRun(telemetry.RunStatusTimeout)
			return rounds, &RunTimeoutError{Name: cfg.Name, Timeout: cfg.Timeout, Completed: len(rounds)}
		}
		e.logger.Error("worker exited unexpectedly", "run", cfg.Name, "error", waitErr, "completed_rounds", len(rounds))
		telemetry.TrackRun(telemetry.RunStatusFailed)
		return rounds, &ExecutionError{
			Run:     cfg.Name,
			Round:   len(rounds) + 1,
			Stage:   "worker",
			Message: fmt.Sprintf("worker exited unexpectedly: %v", waitErr),
			Err:     waitErr,
		}

	default:
		if ctx.Err() == context.DeadlineExceeded {
			telemetry.TrackRun(telemetry.RunStatusTimeout)
			return rounds, &RunTimeoutError{Name: cfg.Name, Timeout: cfg.Timeout, Completed: len(rounds)}
		}
		telemetry.TrackRun(telemetry.RunStatusFailed)
		var execErr *ExecutionError
		if errors.As(runErr, &execErr) {
			return rounds, runErr
		}
		return rounds, &ExecutionError{Run: cfg.Name, Stage: "worker", Message: runErr.Error(), Err: runErr}
	}
}

// stream performs the handshake and consumes the worker's result stream
// until done, a reported failure, or channel EOF.
func (e *runExecutor) stream(codec *protocol.Codec, cfg RunConfig) ([]protocol.RoundData, error) {
	hello, err := codec.Receive()
	if err != nil {
		return nil, err
	}
	if hello.Type != protocol.TypeHello {
		return nil, fmt.Errorf("expected %s from worker, got %s", protocol.TypeHello, hello.Type)
	}
	e.logger.Debug("worker ready", "run", cfg.Name, "worker_pid", hello.Pid)

	spec := &protocol.RunSpec{
		Name:         cfg.Name,
		Benchmark:    cfg.Benchmark,
		Setup:        cfg.Setup,
		Prerun:       cfg.Prerun,
		Rounds:       cfg.Rounds,
		WarmupRounds: cfg.WarmupRounds,
		GCActive:     cfg.GCActive,
		Params:       cfg.Params,
	}
	if err := codec.Send(protocol.Message{Type: protocol.TypeSpec, Spec: spec}); err != nil {
		return nil, err
	}

	var rounds []protocol.RoundData
	for {
		msg, err := codec.Receive()
		if err != nil {
			return rounds, err
		}
		switch msg.Type {
		case protocol.TypeRound:
			if msg.Round == nil {
				return rounds, fmt.Errorf("round message without payload")
			}
			rounds = append(rounds, *msg.Round)
			telemetry.TrackRound(cfg.Name, msg.Round.Duration)
			telemetry.TrackSamples("cpu", len(msg.Round.CPU))
			telemetry.TrackSamples("ram", len(msg.Round.RAM))
			e.logger.Debug("round received", "run", cfg.Name, "round", msg.Round.Round, "duration", msg.Round.Duration)

		case protocol.TypeFailure:
			if msg.Failure == nil {
				return rounds, fmt.Errorf("failure message without payload")
			}
			return rounds, &ExecutionError{
				Run:     cfg.Name,
				Round:   msg.Failure.Round,
				Stage:   msg.Failure.Stage,
				Message: msg.Failure.Message,
			}

		case protocol.TypeDone:
			return rounds, nil

		default:
			return rounds, fmt.Errorf("unexpected %s message from worker", msg.Type)
		}
	}
}
