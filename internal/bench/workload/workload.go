// Package workload runs contention workloads against a sharded map.
package workload

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/mstitov/stripemap/internal/telemetry/logger"
	"github.com/mstitov/stripemap/internal/telemetry/metric"
	"github.com/mstitov/stripemap/pkg/cmap"
)

// Kind selects a workload kernel.
type Kind string

const (
	KindIncrement     Kind = "increment"
	KindAppendRead    Kind = "append-read"
	KindSnapshotChurn Kind = "snapshot-churn"
)

// ParseKind converts a kernel name from config into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindIncrement, KindAppendRead, KindSnapshotChurn:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("workload: unknown kernel %q", s)
	}
}

// Options configures a Runner.
type Options struct {
	// Shards is the shard count of the map under test.
	Shards int

	// Workers is the number of concurrent worker goroutines.
	Workers int

	// Keys is the size of the shared key space.
	Keys int

	// Passes is how many times each worker walks the key space.
	Passes int

	// Rate limits each worker to this many operations per second.
	// Zero means unlimited.
	Rate float64

	// Metrics receives operation counts and snapshot timings. Optional.
	Metrics *metric.Registry

	// Logger receives per-run summaries. Defaults to the global logger.
	Logger logger.Logger
}

// Result summarizes one completed run.
type Result struct {
	RunID     string
	Kernel    Kind
	Shards    int
	Workers   int
	Ops       uint64
	Duration  time.Duration
	OpsPerSec float64
}

// Runner executes workload kernels against fresh map instances.
//
// The rate is stored atomically so a soak run can adjust it between
// iterations when the config file changes.
type Runner struct {
	opts Options
	log  logger.Logger

	rateBits atomic.Uint64

	statsMu sync.RWMutex
	statsFn func() []cmap.ShardStats
}

// NewRunner creates a runner for the given options.
func NewRunner(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	r := &Runner{opts: opts, log: log}
	r.SetRate(opts.Rate)
	return r
}

// SetRate updates the per-worker rate limit. Takes effect on the next
// kernel iteration, when workers create their limiters.
func (r *Runner) SetRate(perWorker float64) {
	r.rateBits.Store(math.Float64bits(perWorker))
}

// Rate returns the current per-worker rate limit.
func (r *Runner) Rate() float64 {
	return math.Float64frombits(r.rateBits.Load())
}

// Stats reports per-shard entry counts of the map currently under
// test, or nil between runs. Feeds metric.NewShardCollector.
func (r *Runner) Stats() []cmap.ShardStats {
	r.statsMu.RLock()
	fn := r.statsFn
	r.statsMu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn()
}

// publish swaps in the stats source for the map a kernel just built.
func (r *Runner) publish(fn func() []cmap.ShardStats) {
	r.statsMu.Lock()
	r.statsFn = fn
	r.statsMu.Unlock()
}

// Run executes one kernel iteration and verifies its invariant.
func (r *Runner) Run(ctx context.Context, kind Kind) (Result, error) {
	runID := newRunID()
	ctx = logger.WithRunID(ctx, runID)
	log := r.log.With("run_id", runID, "kernel", string(kind))

	log.Debug("starting workload",
		"shards", r.opts.Shards,
		"workers", r.opts.Workers,
		"keys", r.opts.Keys,
		"passes", r.opts.Passes,
		"rate", r.Rate())

	if r.opts.Metrics != nil {
		r.opts.Metrics.WorkersActive.Add(float64(r.opts.Workers))
		defer r.opts.Metrics.WorkersActive.Sub(float64(r.opts.Workers))
	}

	start := time.Now()

	var (
		ops uint64
		err error
	)
	switch kind {
	case KindIncrement:
		ops, err = r.runIncrement(ctx)
	case KindAppendRead:
		ops, err = r.runAppendRead(ctx)
	case KindSnapshotChurn:
		ops, err = r.runSnapshotChurn(ctx)
	default:
		return Result{}, fmt.Errorf("workload: unknown kernel %q", kind)
	}

	elapsed := time.Since(start)
	result := Result{
		RunID:    runID,
		Kernel:   kind,
		Shards:   r.opts.Shards,
		Workers:  r.opts.Workers,
		Ops:      ops,
		Duration: elapsed,
	}
	if elapsed > 0 {
		result.OpsPerSec = float64(ops) / elapsed.Seconds()
	}

	if r.opts.Metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		r.opts.Metrics.RunsTotal.WithLabelValues(string(kind), outcome).Inc()
	}

	if err != nil {
		log.Error("workload failed", "error", err, "duration", elapsed)
		return result, err
	}
	log.Info("workload complete",
		"ops", ops,
		"duration", elapsed,
		"ops_per_sec", result.OpsPerSec)
	return result, nil
}

// Soak runs the kernel in a loop until ctx is cancelled. Cancellation
// is the normal way to stop, so it is not reported as an error.
func (r *Runner) Soak(ctx context.Context, kind Kind) error {
	for iteration := 1; ; iteration++ {
		result, err := r.Run(ctx, kind)
		if ctx.Err() != nil {
			r.log.Info("soak stopped", "iterations", iteration)
			return nil
		}
		if err != nil {
			return fmt.Errorf("soak iteration %d: %w", iteration, err)
		}
		r.log.Debug("soak iteration done", "iteration", iteration, "ops", result.Ops)
	}
}

// limiter builds a per-worker limiter, or nil when unlimited.
func (r *Runner) limiter() *rate.Limiter {
	perWorker := r.Rate()
	if perWorker <= 0 {
		return nil
	}
	burst := int(perWorker / 10)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perWorker), burst)
}

// pace applies the rate limit and polls for cancellation. The bare
// ctx check runs every 4096th op to keep the unlimited path cheap.
func pace(ctx context.Context, lim *rate.Limiter, op int) error {
	if lim != nil {
		return lim.Wait(ctx)
	}
	if op&0xfff == 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

// firstError drains a worker error channel.
func firstError(errCh chan error) error {
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "run-unknown"
	}
	return strings.ToLower(id.String())
}
