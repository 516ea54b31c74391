package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

// deliveryTimeout bounds every outbound notification.
const deliveryTimeout = 10 * time.Second

// Manager fans one event out to every configured destination. A Manager
// without any configured destination is valid and does nothing.
type Manager struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewManager builds a Manager from the notification configuration:
// Slack when notifications.slack.enabled is set and SLACK_BOT_USER_TOKEN is
// present in the environment, Discord when notifications.discord.webhook_url
// is set.
func NewManager() *Manager {
	m := &Manager{logger: slog.Default()}

	if viper.GetBool("notifications.slack.enabled") {
		token := os.Getenv("SLACK_BOT_USER_TOKEN")
		if token == "" {
			m.logger.Warn("slack notifications enabled but SLACK_BOT_USER_TOKEN is not set")
		} else {
			m.notifiers = append(m.notifiers, NewSlackNotifier(token, viper.GetString("notifications.slack.channel")))
		}
	}

	if url := viper.GetString("notifications.discord.webhook_url"); url != "" {
		m.notifiers = append(m.notifiers, NewDiscordNotifier(url))
	}

	return m
}

// BenchmarkSaved announces that a benchmark's results were written to disk.
func (m *Manager) BenchmarkSaved(benchmark, dir string, runs int) {
	m.send(fmt.Sprintf("sysloadbench: benchmark %q finished, %d run(s) saved to %s", benchmark, runs, dir))
}

func (m *Manager) send(message string) {
	for _, n := range m.notifiers {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		err := n.Notify(ctx, message)
		cancel()
		if err != nil {
			m.logger.Warn("notification failed", "destination", n.Name(), "error", err)
		}
	}
}
