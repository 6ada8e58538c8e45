// Package command defines the stripemap-bench CLI.
package command

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mstitov/stripemap/internal/bench/config"
	"github.com/mstitov/stripemap/internal/bench/workload"
	"github.com/mstitov/stripemap/internal/infra/confloader"
	"github.com/mstitov/stripemap/internal/infra/shutdown"
	"github.com/mstitov/stripemap/internal/telemetry/logger"
	"github.com/mstitov/stripemap/internal/telemetry/metric"
)

// SoakCommand runs the workload continuously until interrupted.
func SoakCommand() *cli.Command {
	return &cli.Command{
		Name:  "soak",
		Usage: "run the workload in a loop until interrupted",
		Flags: append(workloadFlags(),
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "serve Prometheus metrics during the soak",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "metrics listen address",
			},
		),
		Action: soakAction,
	}
}

func soakAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := initLogger(cfg)

	kind, err := workload.ParseKind(cfg.Workload.Kernel)
	if err != nil {
		return err
	}

	var reg *metric.Registry
	if cfg.Metrics.Enabled {
		reg = metric.NewRegistry()
	}

	r := workload.NewRunner(workload.Options{
		Shards:  cfg.Map.Shards,
		Workers: cfg.Workload.Workers,
		Keys:    cfg.Workload.Keys,
		Passes:  cfg.Workload.Passes,
		Rate:    cfg.Workload.Rate,
		Metrics: reg,
		Logger:  log,
	})

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	handler := shutdown.NewHandler(10 * time.Second)

	// Shutdown hooks run in reverse order: stop the workload first,
	// then the config watcher, then the metrics server.
	if reg != nil {
		if err := reg.Register(metric.NewShardCollector(r.Stats)); err != nil {
			return err
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}

		go func() {
			log.Info("metrics endpoint listening", "addr", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", "error", err)
			}
		}()
		handler.OnShutdown(func(ctx context.Context) error {
			log.Info("stopping metrics server")
			return srv.Shutdown(ctx)
		})
	}

	if path := c.String("config"); path != "" {
		watcher, err := confloader.NewWatcher(log)
		if err != nil {
			return err
		}
		watcher.OnChange(func(changed string) {
			reloadConfig(path, r, log)
		})
		if err := watcher.Watch(path); err != nil {
			return err
		}
		watcher.StartAsync()
		handler.OnShutdown(func(context.Context) error {
			return watcher.Stop()
		})
	}

	handler.OnShutdown(func(context.Context) error {
		log.Info("stopping workload")
		cancel()
		return nil
	})

	soakErr := make(chan error, 1)
	go func() {
		soakErr <- r.Soak(ctx, kind)
		handler.Trigger()
	}()

	log.Info("soak started, press Ctrl+C to stop", "kernel", string(kind))
	if err := handler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
	}
	return <-soakErr
}

// reloadConfig re-reads the config file and applies the knobs that are
// safe to change mid-soak: the rate limit and the log level.
func reloadConfig(path string, r *workload.Runner, log logger.Logger) {
	fresh := config.Default()
	l := confloader.NewLoader(confloader.WithConfigFile(path))
	if err := l.Load(fresh); err != nil {
		log.Warn("config reload failed, keeping current settings", "error", err)
		return
	}
	if err := config.Verify(fresh); err != nil {
		log.Warn("reloaded config invalid, keeping current settings", "error", err)
		return
	}

	r.SetRate(fresh.Workload.Rate)
	logger.SetLevel(fresh.Log.Level)
	log.Info("config reloaded", "rate", fresh.Workload.Rate, "log_level", fresh.Log.Level)
}
