package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
)

// Validate checks the loaded configuration values and returns an error
// describing every invalid one. It must run after Load.
func Validate() error {
	var problems []string

	if viper.GetString("results_dir") == "" {
		problems = append(problems, "results_dir must not be empty")
	}

	if addr := viper.GetString("metrics_addr"); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			problems = append(problems, fmt.Sprintf("metrics_addr %q is not a host:port address", addr))
		}
	}

	if th := viper.GetFloat64("compare_threshold"); th < 0 {
		problems = append(problems, fmt.Sprintf("compare_threshold must not be negative, got %v", th))
	}

	if viper.GetBool("notifications.slack.enabled") && viper.GetString("notifications.slack.channel") == "" {
		problems = append(problems, "notifications.slack.channel must be set when slack notifications are enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
