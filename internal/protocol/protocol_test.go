package protocol

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysloadbench/internal/sampler"
)

func TestCodecRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	out := NewCodec(strings.NewReader(""), &buf)

	msgs := []Message{
		{Type: TypeHello, Pid: 1234},
		{Type: TypeSpec, Spec: &RunSpec{
			Name:      "baseline",
			Benchmark: "bench.sort",
			Rounds:    3,
			GCActive:  true,
			Params:    map[string]any{"size": float64(1000)},
		}},
		{Type: TypeRound, Round: &RoundData{
			Round:    1,
			Duration: 0.254,
			CPU:      sampler.Series{{At: 0.05, Value: 87.5}},
			RAM:      sampler.Series{{At: 0.05, Value: 1 << 20}},
		}},
		{Type: TypeFailure, Failure: &Failure{Round: 2, Stage: StageBenchmark, Message: "boom"}},
		{Type: TypeDone},
	}
	for _, m := range msgs {
		require.NoError(t, out.Send(m))
	}

	// One JSON object per line.
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, len(msgs))

	in := NewCodec(bytes.NewReader(buf.Bytes()), io.Discard)
	for _, want := range msgs {
		got, err := in.Receive()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := in.Receive()
	assert.Equal(t, io.EOF, err)
}

func TestCodecRejectsGarbage(t *testing.T) {
	in := NewCodec(strings.NewReader("not json\n"), io.Discard)
	_, err := in.Receive()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}
