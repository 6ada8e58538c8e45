// Package config defines the stripemap-bench tool configuration.
package config

// Config is the root configuration for stripemap-bench.
type Config struct {
	Map      MapSection      `koanf:"map"`
	Workload WorkloadSection `koanf:"workload"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Log      LogSection      `koanf:"log"`
}

// MapSection configures the map under test.
type MapSection struct {
	// Shards is the shard count the map is constructed with.
	Shards int `koanf:"shards"`
}

// WorkloadSection configures the workload kernel.
type WorkloadSection struct {
	// Kernel selects the workload: increment, append-read, snapshot-churn.
	Kernel string `koanf:"kernel"`

	// Workers is the number of concurrent worker goroutines.
	Workers int `koanf:"workers"`

	// Keys is the size of the shared key space.
	Keys int `koanf:"keys"`

	// Passes is how many times each worker walks the key space.
	Passes int `koanf:"passes"`

	// Rate limits each worker to this many operations per second.
	// Zero means unlimited.
	Rate float64 `koanf:"rate"`
}

// MetricsSection configures the Prometheus endpoint for soak runs.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
