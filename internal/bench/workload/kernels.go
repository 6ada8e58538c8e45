// Package workload runs contention workloads against a sharded map.
package workload

import (
	"context"
	"fmt"
	mrand "math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mstitov/stripemap/internal/telemetry/metric"
	"github.com/mstitov/stripemap/pkg/cmap"
)

// runIncrement is the classic contention kernel: every worker
// increments every key in a shared key space, through Access guards,
// in shuffled order. With no lost updates each key must end at
// workers x passes.
func (r *Runner) runIncrement(ctx context.Context) (uint64, error) {
	m := cmap.New[int, int](r.opts.Shards)
	r.publish(m.Stats)
	defer r.publish(nil)

	var total atomic.Uint64
	var wg sync.WaitGroup
	errCh := make(chan error, r.opts.Workers)

	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			ops := 0
			defer func() { total.Add(uint64(ops)) }()

			lim := r.limiter()
			keys := shuffledKeys(r.opts.Keys, seed)
			for pass := 0; pass < r.opts.Passes; pass++ {
				for _, key := range keys {
					if err := pace(ctx, lim, ops); err != nil {
						errCh <- err
						return
					}
					a := m.Access(key)
					*a.Value++
					a.Release()
					ops++
				}
			}
		}(int64(w))
	}
	wg.Wait()
	r.countOps(metric.OpAccess, total.Load())

	if err := firstError(errCh); err != nil {
		return total.Load(), err
	}

	snap := r.takeSnapshot(m)
	if len(snap) != r.opts.Keys {
		return total.Load(), fmt.Errorf("increment: snapshot has %d keys, want %d", len(snap), r.opts.Keys)
	}
	want := r.opts.Workers * r.opts.Passes
	for key, value := range snap {
		if value != want {
			return total.Load(), fmt.Errorf("increment: key %d = %d, want %d (lost update)", key, value, want)
		}
	}
	return total.Load(), nil
}

// runAppendRead pairs writers appending single characters with readers
// sampling the same keys. Guarded access means a reader can only ever
// see a fully written prefix; anything else is a torn read.
func (r *Runner) runAppendRead(ctx context.Context) (uint64, error) {
	m := cmap.New[int, string](r.opts.Shards)
	r.publish(m.Stats)
	defer r.publish(nil)

	maxLen := r.opts.Workers * r.opts.Passes

	var total atomic.Uint64
	var wg sync.WaitGroup
	errCh := make(chan error, 2*r.opts.Workers)

	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(2)

		go func() { // writer
			defer wg.Done()
			ops := 0
			defer func() { total.Add(uint64(ops)) }()

			lim := r.limiter()
			for pass := 0; pass < r.opts.Passes; pass++ {
				for key := 0; key < r.opts.Keys; key++ {
					if err := pace(ctx, lim, ops); err != nil {
						errCh <- err
						return
					}
					a := m.Access(key)
					*a.Value += "a"
					a.Release()
					ops++
				}
			}
		}()

		go func() { // reader
			defer wg.Done()
			ops := 0
			defer func() { total.Add(uint64(ops)) }()

			lim := r.limiter()
			for pass := 0; pass < r.opts.Passes; pass++ {
				for key := 0; key < r.opts.Keys; key++ {
					if err := pace(ctx, lim, ops); err != nil {
						errCh <- err
						return
					}
					a := m.Access(key)
					observed := *a.Value
					a.Release()
					ops++

					if len(observed) > maxLen {
						errCh <- fmt.Errorf("append-read: key %d grew to %d chars, max %d", key, len(observed), maxLen)
						return
					}
					for i := 0; i < len(observed); i++ {
						if observed[i] != 'a' {
							errCh <- fmt.Errorf("append-read: torn read at key %d: %q", key, observed)
							return
						}
					}
				}
			}
		}()
	}
	wg.Wait()
	r.countOps(metric.OpAccess, total.Load())

	return total.Load(), firstError(errCh)
}

// runSnapshotChurn races whole-map snapshots against writers. Each
// increment lands on exactly one key, so however the writes interleave
// with the copying, the final snapshot must conserve their sum.
func (r *Runner) runSnapshotChurn(ctx context.Context) (uint64, error) {
	m := cmap.New[int, int](r.opts.Shards)
	r.publish(m.Stats)
	defer r.publish(nil)

	var total atomic.Uint64
	var wg sync.WaitGroup
	errCh := make(chan error, r.opts.Workers)

	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			ops := 0
			defer func() { total.Add(uint64(ops)) }()

			lim := r.limiter()
			rng := mrand.New(mrand.NewSource(seed))
			for pass := 0; pass < r.opts.Passes; pass++ {
				for i := 0; i < r.opts.Keys; i++ {
					if err := pace(ctx, lim, ops); err != nil {
						errCh <- err
						return
					}
					a := m.Access(rng.Intn(r.opts.Keys))
					*a.Value++
					a.Release()
					ops++
				}
			}
		}(int64(w))
	}

	writersDone := make(chan struct{})
	var snapshots atomic.Uint64
	var snapWg sync.WaitGroup
	snapWg.Add(1)
	go func() {
		defer snapWg.Done()
		for {
			select {
			case <-writersDone:
				return
			default:
			}
			r.takeSnapshot(m)
			snapshots.Add(1)
		}
	}()

	wg.Wait()
	close(writersDone)
	snapWg.Wait()
	r.countOps(metric.OpAccess, total.Load())

	if err := firstError(errCh); err != nil {
		return total.Load() + snapshots.Load(), err
	}

	final := r.takeSnapshot(m)
	sum := 0
	for _, value := range final {
		sum += value
	}
	want := r.opts.Workers * r.opts.Passes * r.opts.Keys
	if sum != want {
		return total.Load() + snapshots.Load(), fmt.Errorf("snapshot-churn: increment sum = %d, want %d", sum, want)
	}
	return total.Load() + snapshots.Load(), nil
}

// takeSnapshot snapshots m and records duration and size.
func (r *Runner) takeSnapshot(m *cmap.Map[int, int]) map[int]int {
	start := time.Now()
	snap := m.Snapshot()
	if r.opts.Metrics != nil {
		r.opts.Metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
		r.opts.Metrics.SnapshotEntries.Set(float64(len(snap)))
		r.opts.Metrics.OpsTotal.WithLabelValues(metric.OpSnapshot).Inc()
	}
	return snap
}

func (r *Runner) countOps(op string, n uint64) {
	if r.opts.Metrics != nil && n > 0 {
		r.opts.Metrics.OpsTotal.WithLabelValues(op).Add(float64(n))
	}
}

// shuffledKeys builds the key space [-keys/2, keys/2) in a random
// per-worker order, so workers collide on keys rather than marching in
// lockstep.
func shuffledKeys(keys int, seed int64) []int {
	out := make([]int, keys)
	for i := range out {
		out[i] = i - keys/2
	}
	rng := mrand.New(mrand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
