// Package command defines the stripemap-bench CLI.
package command

import (
	"github.com/urfave/cli/v2"

	"github.com/mstitov/stripemap/internal/bench/config"
	"github.com/mstitov/stripemap/internal/infra/buildinfo"
	"github.com/mstitov/stripemap/internal/infra/confloader"
	"github.com/mstitov/stripemap/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "stripemap-bench",
		Usage:   "contention workload driver for the stripemap concurrent map",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RunCommand(),
			SoakCommand(),
			ShardsCommand(),
		},
	}
}

// globalFlags returns flags shared by all commands.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to YAML configuration file",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "log format: text, json",
		},
	}
}

// workloadFlags returns flags that override the workload section.
func workloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "shards",
			Usage: "shard count of the map under test",
		},
		&cli.StringFlag{
			Name:  "kernel",
			Usage: "workload kernel: increment, append-read, snapshot-churn",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of concurrent workers",
		},
		&cli.IntFlag{
			Name:  "keys",
			Usage: "size of the shared key space",
		},
		&cli.IntFlag{
			Name:  "passes",
			Usage: "passes each worker makes over the key space",
		},
		&cli.Float64Flag{
			Name:  "rate",
			Usage: "per-worker operations per second, 0 for unlimited",
		},
	}
}

// loadConfig layers defaults, config file, environment and flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	l := confloader.NewLoader()
	if path := c.String("config"); path != "" {
		if err := l.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := l.LoadEnv(); err != nil {
		return nil, err
	}

	overrides := map[string]any{}
	for flag, key := range map[string]string{
		"shards":     "map.shards",
		"kernel":     "workload.kernel",
		"workers":    "workload.workers",
		"keys":       "workload.keys",
		"passes":     "workload.passes",
		"rate":       "workload.rate",
		"metrics":    "metrics.enabled",
		"addr":       "metrics.addr",
		"log-level":  "log.level",
		"log-format": "log.format",
	} {
		if c.IsSet(flag) {
			overrides[key] = c.Value(flag)
		}
	}
	if len(overrides) > 0 {
		if err := l.LoadMap(overrides); err != nil {
			return nil, err
		}
	}

	if err := l.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogger builds the logger from config and installs it globally.
func initLogger(cfg *config.Config) logger.Logger {
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger.SetDefault(log)
	return log
}
