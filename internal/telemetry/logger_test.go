package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHandler records everything it handles.
type mockHandler struct {
	mu      sync.Mutex
	records []slog.Record
	attrs   []slog.Attr
	group   string
	enabled bool
}

func (h *mockHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.enabled
}

func (h *mockHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	return nil
}

func (h *mockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	next := &mockHandler{
		records: h.records,
		attrs:   append(h.attrs, attrs...),
		group:   h.group,
		enabled: h.enabled,
	}
	return next
}

func (h *mockHandler) WithGroup(name string) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	next := &mockHandler{
		records: h.records,
		attrs:   h.attrs,
		group:   name,
		enabled: h.enabled,
	}
	return next
}

func (h *mockHandler) getRecords() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.records
}

func TestMultiHandler(t *testing.T) {
	h1 := &mockHandler{enabled: true}
	h2 := &mockHandler{enabled: true}

	multi := &multiHandler{handlers: []slog.Handler{h1, h2}}

	t.Run("Enabled", func(t *testing.T) {
		assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))

		h1.enabled = false
		h2.enabled = false
		assert.False(t, multi.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("Handle", func(t *testing.T) {
		record := slog.NewRecord(time.Now(), slog.LevelInfo, "test message", 0)
		err := multi.Handle(context.Background(), record)
		assert.NoError(t, err)
		assert.Len(t, h1.getRecords(), 1)
		assert.Len(t, h2.getRecords(), 1)
		assert.Equal(t, "test message", h1.getRecords()[0].Message)
	})

	t.Run("WithAttrs", func(t *testing.T) {
		attrs := []slog.Attr{slog.String("key", "value")}
		wrapped, ok := multi.WithAttrs(attrs).(*multiHandler)
		require.True(t, ok, "WithAttrs should return a *multiHandler")

		for _, h := range wrapped.handlers {
			mockH, ok := h.(*mockHandler)
			require.True(t, ok)
			assert.Equal(t, attrs, mockH.attrs)
		}
	})

	t.Run("WithGroup", func(t *testing.T) {
		wrapped, ok := multi.WithGroup("sampler").(*multiHandler)
		require.True(t, ok, "WithGroup should return a *multiHandler")

		for _, h := range wrapped.handlers {
			mockH, ok := h.(*mockHandler)
			require.True(t, ok)
			assert.Equal(t, "sampler", mockH.group)
		}
	})
}

func TestInitLoggerWritesFile(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	logFile := filepath.Join(t.TempDir(), "run.log")
	InitLogger(false, logFile)

	slog.Info("run finished", "run", "baseline")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "run finished")
	assert.Contains(t, string(content), "baseline")
}

func TestInitLoggerDebugLevel(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	logFile := filepath.Join(t.TempDir(), "debug.log")
	InitLogger(true, logFile)

	slog.Debug("worker spawned")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "worker spawned")
}

func TestInitLoggerInfoSuppressesDebug(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	logFile := filepath.Join(t.TempDir(), "info.log")
	InitLogger(false, logFile)

	slog.Debug("hidden")
	slog.Info("visible")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "hidden")
	assert.Contains(t, string(content), "visible")
}
