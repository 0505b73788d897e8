// Package metrics defines the Prometheus collectors recorded by the textkit
// commands. textkit is a short-lived process, so instead of serving a scrape
// endpoint the registry is written to a node-exporter textfile on exit.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for textkit.
type Metrics struct {
	CommandsTotal          *prometheus.CounterVec
	CommandDuration        *prometheus.HistogramVec
	FilesReadTotal         prometheus.Counter
	BytesAnalyzedTotal     prometheus.Counter
	FrequencyCacheHits     prometheus.Counter
	FrequencyCacheMisses   prometheus.Counter
	FrequencyCacheFailures prometheus.Counter

	registry *prometheus.Registry
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textkit_commands_total",
				Help: "Total commands executed by name and status.",
			},
			[]string{"command", "status"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "textkit_command_duration_seconds",
				Help:    "Command latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"command"},
		),
		FilesReadTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textkit_files_read_total",
				Help: "Total files whose content was loaded.",
			},
		),
		BytesAnalyzedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textkit_bytes_analyzed_total",
				Help: "Total bytes of text content analysed.",
			},
		),
		FrequencyCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textkit_frequency_cache_hits_total",
				Help: "Word-frequency results served from the cache.",
			},
		),
		FrequencyCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textkit_frequency_cache_misses_total",
				Help: "Word-frequency results computed because the cache had none.",
			},
		),
		FrequencyCacheFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textkit_frequency_cache_failures_total",
				Help: "Cache reads or writes that failed and were skipped.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.CommandsTotal,
		m.CommandDuration,
		m.FilesReadTotal,
		m.BytesAnalyzedTotal,
		m.FrequencyCacheHits,
		m.FrequencyCacheMisses,
		m.FrequencyCacheFailures,
	)

	return m
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the current values to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
