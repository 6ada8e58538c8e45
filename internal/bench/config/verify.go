// Package config defines the stripemap-bench tool configuration.
package config

import (
	"errors"
	"fmt"
)

var validKernels = map[string]bool{
	"increment":      true,
	"append-read":    true,
	"snapshot-churn": true,
}

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if cfg.Map.Shards < 1 {
		return fmt.Errorf("map.shards must be at least 1, got %d", cfg.Map.Shards)
	}
	if !validKernels[cfg.Workload.Kernel] {
		return fmt.Errorf("workload.kernel %q is not one of increment, append-read, snapshot-churn", cfg.Workload.Kernel)
	}
	if cfg.Workload.Workers < 1 {
		return fmt.Errorf("workload.workers must be at least 1, got %d", cfg.Workload.Workers)
	}
	if cfg.Workload.Keys < 1 {
		return fmt.Errorf("workload.keys must be at least 1, got %d", cfg.Workload.Keys)
	}
	if cfg.Workload.Passes < 1 {
		return fmt.Errorf("workload.passes must be at least 1, got %d", cfg.Workload.Passes)
	}
	if cfg.Workload.Rate < 0 {
		return fmt.Errorf("workload.rate must not be negative, got %v", cfg.Workload.Rate)
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return errors.New("metrics.addr is required when metrics are enabled")
	}
	return nil
}
