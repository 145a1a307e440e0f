// Package metrics provides Prometheus metrics for the mosaic merger.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the mosaic merger.
type Metrics struct {
	// Selection metrics
	FilesSelected    prometheus.Counter
	GroupsComplete   prometheus.Gauge
	GroupsIncomplete prometheus.Gauge

	// Merge metrics
	MergesSucceeded prometheus.Counter
	MergesFailed    prometheus.Counter

	// Timing and size metrics
	MergeDuration prometheus.Histogram
	ArtifactBytes prometheus.Histogram
}

// Config holds metrics configuration.
type Config struct {
	Enabled bool
	Address string // address for the metrics HTTP server (e.g. ":9090")
}

var defaultMetrics *Metrics

// Init initializes the package-level metrics. Call once at startup.
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mosaic_merger"
	}

	m := &Metrics{
		FilesSelected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_selected_total",
			Help:      "Total number of files accepted into a selection",
		}),
		GroupsComplete: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups_complete",
			Help:      "Complete groups (exactly four members) in the current selection",
		}),
		GroupsIncomplete: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups_incomplete",
			Help:      "Groups excluded from compositing in the current selection",
		}),
		MergesSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_succeeded_total",
			Help:      "Total number of groups composited successfully",
		}),
		MergesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_failed_total",
			Help:      "Total number of groups that failed compositing",
		}),
		MergeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_duration_seconds",
			Help:      "Time to composite one group (decode, draw, encode)",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}),
		ArtifactBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_bytes",
			Help:      "Encoded size of merged artifacts",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
	}

	defaultMetrics = m
	return m
}

// Get returns the initialized metrics, or nil before Init.
func Get() *Metrics {
	return defaultMetrics
}

// Serve starts the metrics HTTP listener. Blocks; run it in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}

func (m *Metrics) AddFilesSelected(n float64)     { m.FilesSelected.Add(n) }
func (m *Metrics) SetGroupsComplete(n float64)    { m.GroupsComplete.Set(n) }
func (m *Metrics) SetGroupsIncomplete(n float64)  { m.GroupsIncomplete.Set(n) }
func (m *Metrics) IncMergesSucceeded()            { m.MergesSucceeded.Inc() }
func (m *Metrics) IncMergesFailed()               { m.MergesFailed.Inc() }
func (m *Metrics) ObserveMergeDuration(s float64) { m.MergeDuration.Observe(s) }
func (m *Metrics) ObserveArtifactBytes(b float64) { m.ArtifactBytes.Observe(b) }
