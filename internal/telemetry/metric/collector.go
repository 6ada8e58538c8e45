// Package metric provides Prometheus metrics for stripemap workloads.
package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mstitov/stripemap/pkg/cmap"
)

// ShardCollector exports live per-shard entry counts for one map.
//
// It pulls cmap.ShardStats at scrape time, so the gauges reflect the
// map as it is when Prometheus asks, not a cached copy. The stats
// callback keeps the collector decoupled from the map's generic types.
type ShardCollector struct {
	stats func() []cmap.ShardStats

	entries *prometheus.Desc
	shards  *prometheus.Desc
}

// NewShardCollector creates a collector over a Stats method value,
// e.g. NewShardCollector(m.Stats).
func NewShardCollector(stats func() []cmap.ShardStats) *ShardCollector {
	return &ShardCollector{
		stats: stats,
		entries: prometheus.NewDesc(
			namespace+"_shard_entries",
			"Number of entries currently held by each shard.",
			[]string{"shard"}, nil,
		),
		shards: prometheus.NewDesc(
			namespace+"_shards",
			"Number of shards in the map.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *ShardCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.shards
}

// Collect implements prometheus.Collector.
func (c *ShardCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.stats()
	ch <- prometheus.MustNewConstMetric(c.shards, prometheus.GaugeValue, float64(len(stats)))
	for _, s := range stats {
		ch <- prometheus.MustNewConstMetric(
			c.entries, prometheus.GaugeValue, float64(s.Count), strconv.Itoa(s.Index),
		)
	}
}
