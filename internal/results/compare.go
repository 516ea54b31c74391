package results

import "fmt"

// Comparison holds the percentage change of one run's mean measurements
// between two documents. Positive values mean the current document is
// slower/hungrier.
type Comparison struct {
	Run          string
	DurationDiff float64 // percent
	CPUDiff      float64 // percent
	RAMDiff      float64 // percent
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s: %+.2f%% time, %+.2f%% cpu, %+.2f%% ram", c.Run, c.DurationDiff, c.CPUDiff, c.RAMDiff)
}

// Compare reports the per-run deltas of mean duration, mean CPU and mean RAM
// for run names present in both documents, in the current document's sorted
// run order.
func Compare(prev, curr Document) []Comparison {
	var comparisons []Comparison
	for _, name := range curr.RunNames() {
		p, ok := prev.RunResults[name]
		if !ok {
			continue
		}
		c := curr.RunResults[name]

		comp := Comparison{Run: name}
		comp.DurationDiff = percentChange(p.Duration.Total.Mean, c.Duration.Total.Mean)
		comp.CPUDiff = percentChange(p.CPU.Total.Mean, c.CPU.Total.Mean)
		comp.RAMDiff = percentChange(p.RAM.Total.Mean, c.RAM.Total.Mean)
		comparisons = append(comparisons, comp)
	}
	return comparisons
}

func percentChange(prev, curr float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}
