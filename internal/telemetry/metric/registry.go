// Package metric provides Prometheus metrics for stripemap workloads.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stripemap"

// Op label values for the operations counter.
const (
	OpAccess   = "access"
	OpErase    = "erase"
	OpSet      = "set"
	OpSnapshot = "snapshot"
)

// Registry holds the workload metrics.
type Registry struct {
	// OpsTotal counts map operations by operation kind.
	OpsTotal *prometheus.CounterVec

	// WorkersActive tracks workers currently inside a kernel.
	WorkersActive prometheus.Gauge

	// RunsTotal counts completed workload runs by kernel and outcome.
	RunsTotal *prometheus.CounterVec

	// SnapshotDuration observes how long full-map snapshots take.
	SnapshotDuration prometheus.Histogram

	// SnapshotEntries records the size of the last snapshot.
	SnapshotEntries prometheus.Gauge

	reg *prometheus.Registry
}

// NewRegistry creates the workload metrics and registers them, along
// with the standard Go and process collectors, on a fresh registry.
func NewRegistry() *Registry {
	r := &Registry{
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_total",
			Help:      "Map operations executed, by operation kind.",
		}, []string{"op"}),
		WorkersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_active",
			Help:      "Workers currently running a workload kernel.",
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed workload runs, by kernel and outcome.",
		}, []string{"kernel", "outcome"}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_duration_seconds",
			Help:      "Duration of full-map snapshots.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		SnapshotEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_entries",
			Help:      "Entry count of the most recent snapshot.",
		}),
		reg: prometheus.NewRegistry(),
	}

	r.reg.MustRegister(
		r.OpsTotal,
		r.WorkersActive,
		r.RunsTotal,
		r.SnapshotDuration,
		r.SnapshotEntries,
	)
	return r
}

// Register adds an extra collector, such as a ShardCollector.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.reg.Register(c)
}

// Unregister removes a previously registered collector.
func (r *Registry) Unregister(c prometheus.Collector) bool {
	return r.reg.Unregister(c)
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
