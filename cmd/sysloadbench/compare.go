package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sysloadbench/internal/results"
)

var compareThreshold float64

var compareCmd = &cobra.Command{
	Use:   "compare <old results.json> <new results.json>",
	Short: "Compare two results documents and flag regressions",
	Long: `Compares the mean duration, CPU and RAM of every run present in both
documents and prints the percentage change. Runs whose mean duration grew by
more than the threshold fail the comparison.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold := compareThreshold
		if !cmd.Flags().Changed("threshold") {
			threshold = viper.GetFloat64("compare_threshold")
		}
		return compareDocs(cmd.OutOrStdout(), args[0], args[1], threshold)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 10.0, "regression threshold in percent on mean duration")
}

func compareDocs(out io.Writer, oldPath, newPath string, threshold float64) error {
	prev, err := results.Load(oldPath)
	if err != nil {
		return fmt.Errorf("load old results: %w", err)
	}
	curr, err := results.Load(newPath)
	if err != nil {
		return fmt.Errorf("load new results: %w", err)
	}

	comparisons := results.Compare(prev, curr)
	if len(comparisons) == 0 {
		fmt.Fprintln(out, "No runs in common between the two documents.")
		return nil
	}

	var regressions []string
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RUN\tTIME %\tCPU %\tRAM %\tSTATUS")
	for _, c := range comparisons {
		status := "PASS"
		switch {
		case c.DurationDiff > threshold:
			status = "FAIL"
			regressions = append(regressions, c.Run)
		case c.DurationDiff < -threshold:
			status = "IMPR"
		}
		fmt.Fprintf(w, "%s\t%+.2f\t%+.2f\t%+.2f\t%s\n", c.Run, c.DurationDiff, c.CPUDiff, c.RAMDiff, status)
	}
	w.Flush()

	if len(regressions) > 0 {
		return fmt.Errorf("mean duration regressed beyond %.1f%% in: %s", threshold, strings.Join(regressions, ", "))
	}
	return nil
}
