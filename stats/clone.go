package stats

import "slices"

// Clone returns a deep copy.
func (s StatSummary) Clone() StatSummary {
	out := s
	if s.Percentiles != nil {
		out.Percentiles = make(map[int]float64, len(s.Percentiles))
		for k, v := range s.Percentiles {
			out.Percentiles[k] = v
		}
	}
	return out
}

// Clone returns a deep copy.
func (m MetricStats) Clone() MetricStats {
	out := MetricStats{Total: m.Total.Clone(), Rounds: m.Rounds.Clone()}
	if m.PerRound != nil {
		out.PerRound = make([]StatSummary, len(m.PerRound))
		for i, s := range m.PerRound {
			out.PerRound[i] = s.Clone()
		}
	}
	return out
}

// Clone returns a deep copy.
func (d DurationStats) Clone() DurationStats {
	return DurationStats{Total: d.Total.Clone(), Raw: slices.Clone(d.Raw)}
}

// Clone returns a deep copy.
func (r RunStats) Clone() RunStats {
	return RunStats{
		Duration: r.Duration.Clone(),
		CPU:      r.CPU.Clone(),
		RAM:      r.RAM.Clone(),
	}
}
