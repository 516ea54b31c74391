// Package config wires viper and godotenv for the CLI and examples: file
// config, SYSLOADBENCH_ environment variables and the default values every
// command relies on.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from .env, an optional config file and
// the environment. cfgFile overrides the default search (config.yaml in the
// working directory). A missing config file is not an error; defaults and
// environment variables cover every key.
func Load(cfgFile string) {
	// A .env next to the binary is a developer convenience; absence is fine.
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SYSLOADBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("results_dir", "./sysloadbench_results")
	viper.SetDefault("metrics_addr", "")
	viper.SetDefault("compare_threshold", 10.0)

	viper.SetDefault("notifications.slack.enabled", false)
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
	viper.SetDefault("notifications.discord.webhook_url", "")
}
