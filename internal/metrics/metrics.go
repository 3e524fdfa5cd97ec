// Package metrics holds the Prometheus collectors of the lvtree service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics holds Prometheus metrics for forest operations.
//
// Metrics:
//   - lvtree_builds_total{result} - forest builds by outcome
//   - lvtree_build_duration_seconds - build latency
//   - lvtree_build_depth - deepest attachment per build
//   - lvtree_build_records - records per build
//   - lvtree_unresolved_records_total - records promoted to roots by the cycle policy
//   - lvtree_path_queries_total{kind,result} - path and subtree extractions
type Metrics struct {
	BuildsTotal       *prometheus.CounterVec
	BuildDuration     prometheus.Histogram
	BuildDepth        prometheus.Histogram
	BuildRecords      prometheus.Histogram
	UnresolvedRecords prometheus.Counter
	PathQueriesTotal  *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. Passing nil
// registers on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		BuildsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lvtree_builds_total",
			Help: "Total forest builds by result",
		}, []string{"result"}),

		BuildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lvtree_build_duration_seconds",
			Help:    "Forest build duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}),

		BuildDepth: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lvtree_build_depth",
			Help:    "Depth of the deepest attached record per forest build",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50, 100, 500},
		}),

		BuildRecords: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lvtree_build_records",
			Help:    "Records per forest build",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1 to ~260k
		}),

		UnresolvedRecords: f.NewCounter(prometheus.CounterOpts{
			Name: "lvtree_unresolved_records_total",
			Help: "Records promoted to roots because their parent chain never settled",
		}),

		PathQueriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lvtree_path_queries_total",
			Help: "Path and subtree extractions by kind and result",
		}, []string{"kind", "result"}),
	}
}

// ObserveBuild records one successful build.
func (m *Metrics) ObserveBuild(d time.Duration, records, depth, unresolved int) {
	if m == nil {
		return
	}
	m.BuildsTotal.WithLabelValues(ResultOK).Inc()
	m.BuildDuration.Observe(d.Seconds())
	m.BuildDepth.Observe(float64(depth))
	m.BuildRecords.Observe(float64(records))
	m.UnresolvedRecords.Add(float64(unresolved))
}

// BuildFailed counts a build that did not produce a forest.
func (m *Metrics) BuildFailed(result string) {
	if m == nil {
		return
	}
	m.BuildsTotal.WithLabelValues(result).Inc()
}

// ObservePath counts one path ("path") or subtree ("subtree") extraction.
func (m *Metrics) ObservePath(kind, result string) {
	if m == nil {
		return
	}
	m.PathQueriesTotal.WithLabelValues(kind, result).Inc()
}
