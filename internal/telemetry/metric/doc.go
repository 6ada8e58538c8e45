// Package metric provides Prometheus metrics for stripemap workloads.
//
// It exposes operation counters, snapshot latency and live per-shard
// entry counts so a soak run can be watched from the outside.
package metric
