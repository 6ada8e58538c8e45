// Package logger provides structured logging for stripemap tools.
//
// It wraps log/slog behind a small interface so the workload runner
// and CLI log through one configurable sink.
//
// Features:
//   - JSON or text output
//   - Dynamic log level (reconfigurable while a soak run is live)
//   - Context propagation of the logger and the workload run ID
package logger
