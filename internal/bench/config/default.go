// Package config defines the stripemap-bench tool configuration.
package config

import "runtime"

// Default returns the default configuration: the classic contention
// workload (each worker increments 50k keys twice) on 16 shards.
func Default() *Config {
	return &Config{
		Map: MapSection{
			Shards: 16,
		},
		Workload: WorkloadSection{
			Kernel:  "increment",
			Workers: runtime.GOMAXPROCS(0),
			Keys:    50000,
			Passes:  2,
			Rate:    0,
		},
		Metrics: MetricsSection{
			Enabled: false,
			Addr:    "localhost:9184",
		},
		Log: LogSection{
			Level:  "info",
			Format: "text",
		},
	}
}
