// Package main provides the entry point for stripemap-bench.
//
// stripemap-bench drives contention workloads against the stripemap
// sharded concurrent map:
//
//   - run: execute one workload kernel and print a summary
//   - soak: loop the kernel until interrupted, with optional
//     Prometheus metrics and live config reload
//   - shards: show how a key range distributes across shards
//
// Usage:
//
//	stripemap-bench run --shards 100 --workers 4 --keys 50000
//	stripemap-bench soak -c soak.yaml --metrics
package main
