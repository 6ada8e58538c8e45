// Package workload runs contention workloads against a sharded map.
//
// Each kernel hammers one cmap instance from many goroutines and then
// verifies an exact invariant, so a run doubles as a correctness check:
//
//   - increment: every worker increments every key in a shared key
//     space; each final value must equal workers x passes
//   - append-read: writers append single characters while readers
//     sample values; a reader must never observe a torn string
//   - snapshot-churn: snapshots race with writers; the final snapshot
//     must conserve the total number of increments
//
// A Runner executes kernels one-shot (Run) or in a loop (Soak), with
// optional per-worker rate limiting and Prometheus metrics.
package workload
