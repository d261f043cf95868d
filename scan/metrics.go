package scan

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments scan runs with Prometheus counters on a private
// registry, so the /metrics endpoint exposes only what this service emits.
type Metrics struct {
	registry *prometheus.Registry

	filesTotal   *prometheus.CounterVec
	fileDuration *prometheus.HistogramVec
	scansInRun   prometheus.Gauge
}

// NewMetrics builds and registers the scan metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	filesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manualscan",
			Subsystem: "scan",
			Name:      "files_total",
			Help:      "Files processed, by outcome.",
		},
		[]string{"status"},
	)
	fileDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "manualscan",
			Subsystem: "scan",
			Name:      "file_duration_seconds",
			Help:      "Per-file processing duration by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	scansInRun := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "manualscan",
			Subsystem: "scan",
			Name:      "scans_in_flight",
			Help:      "Scans currently running.",
		},
	)

	registry.MustRegister(filesTotal, fileDuration, scansInRun)

	return &Metrics{
		registry:     registry,
		filesTotal:   filesTotal,
		fileDuration: fileDuration,
		scansInRun:   scansInRun,
	}
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ScanStarted()  { m.scansInRun.Inc() }
func (m *Metrics) ScanFinished() { m.scansInRun.Dec() }

// FileProcessed records one file outcome. Error statuses collapse to a
// single "error" label so per-file error text cannot explode cardinality.
func (m *Metrics) FileProcessed(status string, d time.Duration) {
	label := metricStatus(status)
	m.filesTotal.WithLabelValues(label).Inc()
	m.fileDuration.WithLabelValues(label).Observe(d.Seconds())
}

func metricStatus(status string) string {
	switch {
	case status == StatusSuccess:
		return "success"
	case status == StatusNoText:
		return "no_text"
	case status == StatusUnsupported, status == StatusLegacyDoc:
		return "unsupported"
	case strings.HasPrefix(status, "Error:"):
		return "error"
	default:
		return "other"
	}
}
