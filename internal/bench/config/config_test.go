package config

import (
	"strings"
	"testing"
)

func TestDefaultVerifies(t *testing.T) {
	cfg := Default()
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) = %v, want nil", err)
	}
	if cfg.Workload.Kernel != "increment" {
		t.Errorf("default kernel = %q, want increment", cfg.Workload.Kernel)
	}
	if cfg.Map.Shards != 16 {
		t.Errorf("default shards = %d, want 16", cfg.Map.Shards)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero shards",
			mutate:  func(c *Config) { c.Map.Shards = 0 },
			wantErr: "map.shards",
		},
		{
			name:    "negative shards",
			mutate:  func(c *Config) { c.Map.Shards = -5 },
			wantErr: "map.shards",
		},
		{
			name:    "unknown kernel",
			mutate:  func(c *Config) { c.Workload.Kernel = "frobnicate" },
			wantErr: "workload.kernel",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workload.Workers = 0 },
			wantErr: "workload.workers",
		},
		{
			name:    "zero keys",
			mutate:  func(c *Config) { c.Workload.Keys = 0 },
			wantErr: "workload.keys",
		},
		{
			name:    "zero passes",
			mutate:  func(c *Config) { c.Workload.Passes = 0 },
			wantErr: "workload.passes",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.Workload.Rate = -1 },
			wantErr: "workload.rate",
		},
		{
			name: "metrics enabled without addr",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Addr = ""
			},
			wantErr: "metrics.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			if err == nil {
				t.Fatal("Verify() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_AllKernels(t *testing.T) {
	for _, kernel := range []string{"increment", "append-read", "snapshot-churn"} {
		cfg := Default()
		cfg.Workload.Kernel = kernel
		if err := Verify(cfg); err != nil {
			t.Errorf("Verify() with kernel %q = %v, want nil", kernel, err)
		}
	}
}
