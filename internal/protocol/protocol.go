// Package protocol defines the line-delimited JSON messages exchanged
// between the run executor and its worker process over the control pipes.
package protocol

import (
	"encoding/json"
	"fmt"
	"io"

	"sysloadbench/internal/sampler"
)

// Message types. A session is: worker sends Hello, executor answers Spec,
// worker streams Round messages and finishes with Done, or reports a single
// Failure and exits.
const (
	TypeHello   = "hello"
	TypeSpec    = "spec"
	TypeRound   = "round"
	TypeFailure = "failure"
	TypeDone    = "done"
)

// Stages a failure can originate from.
const (
	StageResolve   = "resolve"
	StageSetup     = "setup"
	StagePrerun    = "prerun"
	StageBenchmark = "benchmark"
)

// RunSpec tells the worker what to execute. Function fields carry registry
// names, never code.
type RunSpec struct {
	Name         string         `json:"name"`
	Benchmark    string         `json:"benchmark"`
	Setup        string         `json:"setup,omitempty"`
	Prerun       string         `json:"prerun,omitempty"`
	Rounds       int            `json:"rounds"`
	WarmupRounds int            `json:"warmup_rounds"`
	GCActive     bool           `json:"gc_active"`
	Params       map[string]any `json:"params,omitempty"`
}

// RoundData is one measured round: wall-clock duration in seconds plus the
// CPU and RSS series captured while it ran. Round indices are 1-based.
type RoundData struct {
	Round    int            `json:"round"`
	Duration float64        `json:"duration"`
	CPU      sampler.Series `json:"cpu"`
	RAM      sampler.Series `json:"ram"`
}

// Failure describes why the worker stopped. Round is 0 for failures outside
// a measured round (resolution, setup, warmup), otherwise the 1-based round
// index.
type Failure struct {
	Round   int    `json:"round"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Message is the envelope for every frame on the control channel.
type Message struct {
	Type    string     `json:"type"`
	Pid     int        `json:"pid,omitempty"`
	Spec    *RunSpec   `json:"spec,omitempty"`
	Round   *RoundData `json:"round,omitempty"`
	Failure *Failure   `json:"failure,omitempty"`
}

// Codec frames messages as one JSON object per line.
type Codec struct {
	enc *json.Encoder
	dec *json.Decoder
}

// NewCodec reads frames from r and writes frames to w.
func NewCodec(r io.Reader, w io.Writer) *Codec {
	return &Codec{
		enc: json.NewEncoder(w),
		dec: json.NewDecoder(r),
	}
}

// Send writes one frame.
func (c *Codec) Send(m Message) error {
	if err := c.enc.Encode(m); err != nil {
		return fmt.Errorf("send %s message: %w", m.Type, err)
	}
	return nil
}

// Receive reads the next frame. It returns io.EOF unchanged when the peer
// closed the channel.
func (c *Codec) Receive() (Message, error) {
	var m Message
	if err := c.dec.Decode(&m); err != nil {
		if err == io.EOF {
			return Message{}, io.EOF
		}
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}
