// Package metrics exposes registrar counters through a private prometheus
// registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
)

type Metrics struct {
	Registry *prometheus.Registry

	saved    *prometheus.CounterVec
	failures *prometheus.CounterVec
	records  prometheus.Gauge
	duration *prometheus.HistogramVec
}

// New creates a registry with all registrar collectors registered
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		saved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lxa_assets_saved_total",
			Help: "Assets successfully registered, by category.",
		}, []string{"category"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lxa_asset_save_failures_total",
			Help: "Failed registrations, by error kind.",
		}, []string{"kind"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lxa_manifest_records",
			Help: "Records in the manifest after the last successful write.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lxa_asset_save_duration_seconds",
			Help:    "Wall time of a registration including manifest rewrite.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"category"}),
	}

	m.Registry.MustRegister(m.saved, m.failures, m.records, m.duration)
	return m
}

func (m *Metrics) ObserveSave(category domain.Category, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.saved.WithLabelValues(string(category)).Inc()
	m.duration.WithLabelValues(string(category)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFailure(kind domain.ErrorKind) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) SetRecords(n int) {
	if m == nil {
		return
	}
	m.records.Set(float64(n))
}

// WriteTextfile dumps the registry in the node_exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
