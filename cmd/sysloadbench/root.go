package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sysloadbench/internal/config"
	"sysloadbench/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sysloadbench",
	Short: "Inspect and compare sysloadbench benchmark results",
	Long: `sysloadbench is a library for benchmarking functions under system load
measurement: wall-clock duration, CPU utilization and resident memory of the
whole process tree, collected in an isolated worker process.

This CLI works with the results such benchmarks save: render reports,
compare documents across executions, regenerate charts and browse saved
benchmarks interactively.`,
	SilenceErrors: true,
}

// Execute runs the CLI. It is called once, from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'sysloadbench --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose/debug logging")
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		viper.BindPFlag(f.Name, f)
	})
}

// initConfig loads configuration and brings up logging and, when
// configured, the metrics listener.
func initConfig() {
	config.Load(cfgFile)
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))

	if addr := viper.GetString("metrics_addr"); addr != "" {
		go func() {
			if err := telemetry.StartMetricsServer(addr); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: metrics server failed: %v\n", err)
			}
		}()
	}
}
