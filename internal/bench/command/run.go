// Package command defines the stripemap-bench CLI.
package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mstitov/stripemap/internal/bench/workload"
)

// RunCommand executes one workload run and exits.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "execute one workload run and exit",
		Flags:  workloadFlags(),
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := initLogger(cfg)

	kind, err := workload.ParseKind(cfg.Workload.Kernel)
	if err != nil {
		return err
	}

	r := workload.NewRunner(workload.Options{
		Shards:  cfg.Map.Shards,
		Workers: cfg.Workload.Workers,
		Keys:    cfg.Workload.Keys,
		Passes:  cfg.Workload.Passes,
		Rate:    cfg.Workload.Rate,
		Logger:  log,
	})

	result, err := r.Run(c.Context, kind)
	if err != nil {
		return fmt.Errorf("workload run: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "run %s: %s kernel, %d shards, %d workers\n",
		result.RunID, result.Kernel, result.Shards, result.Workers)
	fmt.Fprintf(c.App.Writer, "  %d ops in %s (%.0f ops/sec)\n",
		result.Ops, result.Duration.Round(time.Millisecond), result.OpsPerSec)
	return nil
}
