// Package metrics counts export results in a Prometheus registry and writes them
// to a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wikiwriter"

// Metrics holds the export counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	pagesWritten *prometheus.CounterVec
	pagesFailed  *prometheus.CounterVec
	warnings     *prometheus.CounterVec
	runs         *prometheus.CounterVec
	runDuration  prometheus.Gauge
	lastRun      prometheus.Gauge
}

// New creates the export metrics in a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		pagesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "Pages written by namespace",
		}, []string{"namespace"}),

		pagesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_failed_total",
			Help:      "Pages that could not be written by namespace",
		}, []string{"namespace"}),

		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Recoverable problems on written pages by namespace",
		}, []string{"namespace"}),

		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Export runs by result",
		}, []string{"result"}),

		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last export run",
		}),

		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last export run finished",
		}),
	}

	m.registry.MustRegister(m.pagesWritten, m.pagesFailed, m.warnings, m.runs, m.runDuration, m.lastRun)
	return m
}

// Registry exposes the underlying Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) PageWritten(ns string) {
	if m != nil {
		m.pagesWritten.WithLabelValues(ns).Inc()
	}
}

func (m *Metrics) PageFailed(ns string) {
	if m != nil {
		m.pagesFailed.WithLabelValues(ns).Inc()
	}
}

func (m *Metrics) Warning(ns string) {
	if m != nil {
		m.warnings.WithLabelValues(ns).Inc()
	}
}

// RunFinished records the outcome and duration of a run
func (m *Metrics) RunFinished(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.runs.WithLabelValues(result).Inc()
	m.runDuration.Set(d.Seconds())
	m.lastRun.SetToCurrentTime()
}

// WriteTextfile writes the registry in the text exposition format. An empty path
// is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
