// Package metrics records pipeline run counters on a private Prometheus
// registry and writes them to a node_exporter textfile after each run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns the run metrics. A nil Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry

	entries     *prometheus.CounterVec
	games       *prometheus.CounterVec
	violations  *prometheus.CounterVec
	retries     *prometheus.CounterVec
	runDuration prometheus.Gauge
	lastRun     prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		entries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeplego_honor_entries_total",
				Help: "Raw honor entries seen by the pipeline, by outcome",
			},
			[]string{"outcome"},
		),
		games: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeplego_games_total",
				Help: "Per-game merge outcomes",
			},
			[]string{"outcome"},
		),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeplego_integrity_violations_total",
				Help: "Integrity violations reported by the verifier, by rule",
			},
			[]string{"rule"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeplego_store_retries_total",
				Help: "Store operations retried after a transient failure",
			},
			[]string{"operation"},
		),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meeplego_run_duration_seconds",
			Help: "Wall time of the last pipeline run",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meeplego_last_run_timestamp_seconds",
			Help: "Unix time the last pipeline run finished",
		}),
	}
	r.registry.MustRegister(r.entries, r.games, r.violations, r.retries, r.runDuration, r.lastRun)
	return r
}

// Registry exposes the underlying registry for tests and exporters.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Entry counts one raw entry outcome ("processed" or a skip reason).
func (r *Recorder) Entry(outcome string) {
	if r == nil {
		return
	}
	r.entries.WithLabelValues(outcome).Inc()
}

// Game counts one per-game outcome.
func (r *Recorder) Game(outcome string) {
	if r == nil {
		return
	}
	r.games.WithLabelValues(outcome).Inc()
}

// Violations adds counts per rule.
func (r *Recorder) Violations(byRule map[string]int) {
	if r == nil {
		return
	}
	for rule, n := range byRule {
		r.violations.WithLabelValues(rule).Add(float64(n))
	}
}

// Retry counts one retried store operation.
func (r *Recorder) Retry(operation string) {
	if r == nil {
		return
	}
	r.retries.WithLabelValues(operation).Inc()
}

// RunFinished records the run duration and completion time.
func (r *Recorder) RunFinished(d time.Duration, finished time.Time) {
	if r == nil {
		return
	}
	r.runDuration.Set(d.Seconds())
	r.lastRun.Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry in text exposition format. An empty path
// is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
