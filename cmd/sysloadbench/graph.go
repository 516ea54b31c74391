package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"sysloadbench/internal/plotting"
	"sysloadbench/internal/results"
)

var graphOut string

var graphCmd = &cobra.Command{
	Use:   "graph <results.json>",
	Short: "Regenerate the charts of a saved results document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeGraphs(cmd.OutOrStdout(), args[0], graphOut)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVar(&graphOut, "out", "graphs", "directory to write charts into")
}

func writeGraphs(out io.Writer, path, dir string) error {
	doc, err := results.Load(path)
	if err != nil {
		return err
	}

	for _, name := range doc.RunNames() {
		runDir := filepath.Join(dir, name)
		if err := plotting.WriteRunCharts(doc.RunResults[name], runDir, doc.Benchmark, name); err != nil {
			return fmt.Errorf("charts for run %q: %w", name, err)
		}
		fmt.Fprintf(out, "Charts for run %q written to %s\n", name, runDir)
	}
	return nil
}
