package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sysloadbench/internal/ui"
)

// browseResults allows tests to stub the interactive browser.
var browseResults = ui.BrowseResults

var viewCmd = &cobra.Command{
	Use:   "view [results directory]",
	Short: "Browse saved benchmark results interactively",
	Long: `Opens an interactive browser over every results document found below
the given directory (default: the configured results_dir).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("results_dir")
		if len(args) == 1 {
			dir = args[0]
		}
		return browseResults(dir)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
