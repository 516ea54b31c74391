package stats

import "fmt"

// Decimal places used when summarizing each measurement kind.
const (
	metricDecimals   = 2
	durationDecimals = 4
)

// MetricStats groups the summaries of a sampled metric (CPU or RAM) across a
// run. Total pools every sample of every round into one series, Rounds
// summarizes the per-round means, and PerRound keeps each round's own
// summary in execution order.
type MetricStats struct {
	Total    StatSummary   `json:"total"`
	Rounds   StatSummary   `json:"rounds"`
	PerRound []StatSummary `json:"per_round"`
}

// DurationStats summarizes the measured round durations. Raw preserves the
// individual durations, in seconds, in execution order.
type DurationStats struct {
	Total StatSummary `json:"total"`
	Raw   []float64   `json:"raw"`
}

// RunStats is the full statistics document for one run.
type RunStats struct {
	Duration DurationStats `json:"time"`
	CPU      MetricStats   `json:"cpu"`
	RAM      MetricStats   `json:"ram"`
}

// NewRunStats aggregates the raw measurements of a run: one duration per
// round and one CPU and RAM sample series per round. Durations are rounded
// to 4 decimal places, CPU and RAM values to 2. A round whose sampler
// produced no samples contributes a single zero sample. At least one round
// is required, and cpu and ram must have one series per round.
func NewRunStats(durations []float64, cpu, ram [][]float64) (RunStats, error) {
	if len(durations) == 0 {
		return RunStats{}, fmt.Errorf("no rounds to aggregate")
	}
	if len(cpu) != len(durations) || len(ram) != len(durations) {
		return RunStats{}, fmt.Errorf("rounds mismatch: %d durations, %d cpu series, %d ram series",
			len(durations), len(cpu), len(ram))
	}

	total, err := Summarize(durations, durationDecimals)
	if err != nil {
		return RunStats{}, err
	}

	cpuStats, err := summarizeMetric(cpu)
	if err != nil {
		return RunStats{}, fmt.Errorf("cpu: %w", err)
	}
	ramStats, err := summarizeMetric(ram)
	if err != nil {
		return RunStats{}, fmt.Errorf("ram: %w", err)
	}

	raw := make([]float64, len(durations))
	for i, d := range durations {
		raw[i] = roundTo(d, durationDecimals)
	}

	return RunStats{
		Duration: DurationStats{Total: total, Raw: raw},
		CPU:      cpuStats,
		RAM:      ramStats,
	}, nil
}

func summarizeMetric(series [][]float64) (MetricStats, error) {
	var (
		pool     []float64
		means    = make([]float64, 0, len(series))
		perRound = make([]StatSummary, 0, len(series))
	)
	for i, round := range series {
		if len(round) == 0 {
			round = []float64{0}
		}
		s, err := Summarize(round, metricDecimals)
		if err != nil {
			return MetricStats{}, fmt.Errorf("round %d: %w", i+1, err)
		}
		perRound = append(perRound, s)
		means = append(means, s.Mean)
		pool = append(pool, round...)
	}

	total, err := Summarize(pool, metricDecimals)
	if err != nil {
		return MetricStats{}, err
	}
	rounds, err := Summarize(means, metricDecimals)
	if err != nil {
		return MetricStats{}, err
	}

	return MetricStats{Total: total, Rounds: rounds, PerRound: perRound}, nil
}
