package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordNotifier(t *testing.T) {
	t.Run("posts content payload", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &got))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		n := NewDiscordNotifier(srv.URL)
		err := n.Notify(context.Background(), "benchmark done")
		require.NoError(t, err)
		assert.Equal(t, "benchmark done", got["content"])
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		err := NewDiscordNotifier(srv.URL).Notify(context.Background(), "x")
		assert.ErrorContains(t, err, "status 400")
	})

	t.Run("unconfigured webhook is an error", func(t *testing.T) {
		err := NewDiscordNotifier("").Notify(context.Background(), "x")
		assert.Error(t, err)
	})
}

type fakeSlackAPI struct {
	channel string
	text    bool
	err     error
}

func (f *fakeSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.channel = channelID
	f.text = len(options) > 0
	return "", "", f.err
}

func TestSlackNotifier(t *testing.T) {
	t.Run("posts to configured channel", func(t *testing.T) {
		api := &fakeSlackAPI{}
		n := &SlackNotifier{api: api, channel: "#bench"}
		require.NoError(t, n.Notify(context.Background(), "hello"))
		assert.Equal(t, "#bench", api.channel)
		assert.True(t, api.text)
	})

	t.Run("missing channel is an error", func(t *testing.T) {
		n := &SlackNotifier{api: &fakeSlackAPI{}}
		assert.Error(t, n.Notify(context.Background(), "hello"))
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Notify(ctx context.Context, message string) error {
	r.messages = append(r.messages, message)
	return nil
}

func TestManager(t *testing.T) {
	t.Run("unconfigured manager has no destinations", func(t *testing.T) {
		viper.Reset()
		t.Setenv("SLACK_BOT_USER_TOKEN", "")

		m := NewManager()
		assert.Empty(t, m.notifiers)
		// Must be a no-op, not a crash.
		m.BenchmarkSaved("b", "/tmp/results", 3)
	})

	t.Run("discord destination from webhook config", func(t *testing.T) {
		viper.Reset()
		viper.Set("notifications.discord.webhook_url", "http://localhost/hook")
		defer viper.Reset()

		m := NewManager()
		require.Len(t, m.notifiers, 1)
		assert.Equal(t, "discord", m.notifiers[0].Name())
	})

	t.Run("slack destination needs the token", func(t *testing.T) {
		viper.Reset()
		viper.Set("notifications.slack.enabled", true)
		t.Setenv("SLACK_BOT_USER_TOKEN", "")
		defer viper.Reset()

		m := NewManager()
		assert.Empty(t, m.notifiers)

		t.Setenv("SLACK_BOT_USER_TOKEN", "xoxb-test")
		m = NewManager()
		require.Len(t, m.notifiers, 1)
		assert.Equal(t, "slack", m.notifiers[0].Name())
	})

	t.Run("fans out the saved event", func(t *testing.T) {
		rec := &recordingNotifier{}
		m := &Manager{notifiers: []Notifier{rec}, logger: discardLogger()}
		m.BenchmarkSaved("nightly", "/data/results", 2)

		require.Len(t, rec.messages, 1)
		assert.Contains(t, rec.messages[0], `"nightly"`)
		assert.Contains(t, rec.messages[0], "/data/results")
	})
}
