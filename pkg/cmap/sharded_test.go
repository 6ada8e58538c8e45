package cmap

import (
	"math/rand"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []int{1, 2, 3, 16, 100}
	for _, count := range tests {
		m := New[int, int](count)
		if m.ShardCount() != count {
			t.Errorf("New(%d) shard count = %d, want %d", count, m.ShardCount(), count)
		}
	}
}

func TestNew_InvalidShardCount(t *testing.T) {
	for _, count := range []int{0, -1, -100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%d) should panic", count)
				}
			}()
			New[int, int](count)
		}()
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	m1 := New[int, int](7)
	m2 := New[int, int](7)

	keys := []int{0, 1, 42, -1, -500, 1 << 40, -(1 << 40)}
	for _, key := range keys {
		first := m1.ShardIndex(key)
		for i := 0; i < 10; i++ {
			if got := m1.ShardIndex(key); got != first {
				t.Fatalf("ShardIndex(%d) not stable: %d then %d", key, first, got)
			}
		}
		// Same shard count must route identically across instances.
		if got := m2.ShardIndex(key); got != first {
			t.Errorf("ShardIndex(%d) differs across instances: %d vs %d", key, first, got)
		}
		if first < 0 || first >= m1.ShardCount() {
			t.Errorf("ShardIndex(%d) = %d, out of range [0,%d)", key, first, m1.ShardCount())
		}
	}
}

func TestAccess_InsertsZeroValue(t *testing.T) {
	m := New[int, int](4)

	a := m.Access(10)
	if *a.Value != 0 {
		t.Errorf("absent key value = %d, want 0", *a.Value)
	}
	*a.Value = 7
	a.Release()

	val, ok := m.Get(10)
	if !ok || val != 7 {
		t.Errorf("Get(10) = (%d, %v), want (7, true)", val, ok)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestAccess_ReleaseIdempotent(t *testing.T) {
	m := New[int, int](4)

	a := m.Access(1)
	a.Release()
	a.Release() // second release must be a no-op, not an unlock panic

	if a.Value != nil {
		t.Error("Value should be nil after Release")
	}

	// Shard must be usable again.
	b := m.Access(1)
	*b.Value = 3
	b.Release()
}

func TestAccess_SameShardBlocks(t *testing.T) {
	m := New[int, int](1)

	a := m.Access(1)
	entered := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(entered)
		b := m.Access(2) // same (only) shard
		b.Release()
		close(done)
	}()

	<-entered
	select {
	case <-done:
		t.Fatal("same-shard access completed while guard was held")
	case <-time.After(50 * time.Millisecond):
	}

	a.Release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("same-shard access still blocked after release")
	}
}

func TestAccess_OtherShardDoesNotBlock(t *testing.T) {
	m := New[int, int](4)

	a := m.Access(0) // shard 0
	defer a.Release()

	done := make(chan struct{})
	go func() {
		b := m.Access(1) // shard 1
		*b.Value = 9
		b.Release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("access to a different shard blocked on a held guard")
	}
}

func TestErase(t *testing.T) {
	m := New[int, string](4)

	m.Set(1, "one")
	m.Erase(1)
	if _, ok := m.Get(1); ok {
		t.Error("key 1 should not exist after Erase")
	}

	// Erasing an absent key twice must be a silent no-op.
	m.Set(2, "two")
	m.Erase(99)
	m.Erase(99)
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	if val, ok := m.Get(2); !ok || val != "two" {
		t.Errorf("Get(2) = (%q, %v), want (\"two\", true)", val, ok)
	}
}

func TestSetAndGet(t *testing.T) {
	m := New[uint32, int](8)

	m.Set(5, 100)
	m.Set(5, 200)

	val, ok := m.Get(5)
	if !ok || val != 200 {
		t.Errorf("Get(5) = (%d, %v), want (200, true)", val, ok)
	}
	if _, ok := m.Get(6); ok {
		t.Error("Get(6) should report absent")
	}
}

func TestStats(t *testing.T) {
	m := New[int, int](4)
	for i := 0; i < 100; i++ {
		m.Set(i, i)
	}

	stats := m.Stats()
	if len(stats) != 4 {
		t.Fatalf("len(Stats()) = %d, want 4", len(stats))
	}
	total := 0
	for i, s := range stats {
		if s.Index != i {
			t.Errorf("stats[%d].Index = %d", i, s.Index)
		}
		// Sequential keys under modulo routing spread evenly.
		if s.Count != 25 {
			t.Errorf("stats[%d].Count = %d, want 25", i, s.Count)
		}
		total += s.Count
	}
	if total != m.Len() {
		t.Errorf("sum of shard counts = %d, Len() = %d", total, m.Len())
	}
}

// runConcurrentUpdates is the contention kernel: workers goroutines
// each increment every key in [-keyCount/2, keyCount/2) twice, in
// shuffled order, through Access guards.
func runConcurrentUpdates(m *Map[int, int], workers, keyCount int) {
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			keys := make([]int, keyCount)
			for i := range keys {
				keys[i] = i - keyCount/2
			}
			rng := rand.New(rand.NewSource(seed))
			rng.Shuffle(len(keys), func(i, j int) {
				keys[i], keys[j] = keys[j], keys[i]
			})
			for pass := 0; pass < 2; pass++ {
				for _, key := range keys {
					a := m.Access(key)
					*a.Value++
					a.Release()
				}
			}
		}(int64(w))
	}
	wg.Wait()
}

func TestConcurrentUpdate(t *testing.T) {
	const (
		workers  = 3
		keyCount = 50000
	)

	m := New[int, int](workers)
	runConcurrentUpdates(m, workers, keyCount)

	result := m.Snapshot()
	if len(result) != keyCount {
		t.Fatalf("snapshot size = %d, want %d", len(result), keyCount)
	}
	for k, v := range result {
		if v != workers*2 {
			t.Fatalf("key %d = %d, want %d", k, v, workers*2)
		}
	}
}

func TestShardCountDoesNotAffectContents(t *testing.T) {
	const (
		workers  = 4
		keyCount = 10000
	)

	single := New[int, int](1)
	many := New[int, int](100)
	runConcurrentUpdates(single, workers, keyCount)
	runConcurrentUpdates(many, workers, keyCount)

	a, b := single.Snapshot(), many.Snapshot()
	if len(a) != len(b) {
		t.Fatalf("snapshot sizes differ: %d vs %d", len(a), len(b))
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			t.Fatalf("key %d: 1 shard = %d, 100 shards = %d (present %v)", k, v, bv, ok)
		}
	}
}
