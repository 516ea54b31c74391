package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sysloadbench/sysinfo"
)

var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Print the host metadata stored with benchmark results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		writeSysInfo(cmd.OutOrStdout(), sysinfo.Gather())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sysinfoCmd)
}

func writeSysInfo(out io.Writer, info sysinfo.Info) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Go version:\t%s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform:\t%s\n", info.Platform)
	fmt.Fprintf(w, "OS:\t%s\n", info.OS)
	fmt.Fprintf(w, "Host:\t%s\n", info.Hostname)
	fmt.Fprintf(w, "CPU:\t%s\n", info.CPU)
	if info.GPU != "" {
		fmt.Fprintf(w, "GPU:\t%s\n", info.GPU)
	}
	fmt.Fprintf(w, "RAM:\t%s\n", info.RAM)
	w.Flush()
}
