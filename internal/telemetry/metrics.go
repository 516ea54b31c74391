package telemetry

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcome labels for TrackRun.
const (
	RunStatusOK      = "ok"
	RunStatusFailed  = "failed"
	RunStatusTimeout = "timeout"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysloadbench_runs_total",
			Help: "Benchmark runs by final status.",
		},
		[]string{"status"},
	)

	roundsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysloadbench_rounds_completed_total",
			Help: "Measured rounds completed, per run name.",
		},
		[]string{"run"},
	)

	roundDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sysloadbench_round_duration_seconds",
			Help:    "Wall-clock duration of measured rounds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"run"},
	)

	samplesCollected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysloadbench_samples_collected_total",
			Help: "Sampler observations received, per metric.",
		},
		[]string{"metric"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal, roundsCompleted, roundDuration, samplesCollected)
}

// TrackRun records the final status of one run.
func TrackRun(status string) {
	runsTotal.WithLabelValues(status).Inc()
}

// TrackRound records one completed measured round and its duration.
func TrackRound(run string, seconds float64) {
	roundsCompleted.WithLabelValues(run).Inc()
	roundDuration.WithLabelValues(run).Observe(seconds)
}

// TrackSamples records sampler observations received for a metric.
func TrackSamples(metric string, n int) {
	samplesCollected.WithLabelValues(metric).Add(float64(n))
}

var (
	metricsMu      sync.Mutex
	metricsRunning bool
)

// StartMetricsServer exposes Prometheus metrics on addr at /metrics and
// blocks serving them. A second call while the server runs returns nil
// immediately.
func StartMetricsServer(addr string) error {
	metricsMu.Lock()
	if metricsRunning {
		metricsMu.Unlock()
		return nil
	}
	metricsRunning = true
	metricsMu.Unlock()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	slog.Info("metrics server listening", "addr", addr)
	err := http.ListenAndServe(addr, mux)

	metricsMu.Lock()
	metricsRunning = false
	metricsMu.Unlock()
	return err
}
