package cmap

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewHashed_InvalidShardCount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewHashed(0) should panic")
		}
	}()
	NewHashed[int](0)
}

func TestHashed_ShardIndexDeterministic(t *testing.T) {
	m1 := NewHashed[int](13)
	m2 := NewHashed[int](13)

	for _, key := range []string{"", "a", "session-42", "キー"} {
		first := m1.ShardIndex(key)
		if got := m1.ShardIndex(key); got != first {
			t.Fatalf("ShardIndex(%q) not stable: %d then %d", key, first, got)
		}
		if got := m2.ShardIndex(key); got != first {
			t.Errorf("ShardIndex(%q) differs across instances: %d vs %d", key, first, got)
		}
		if first < 0 || first >= 13 {
			t.Errorf("ShardIndex(%q) = %d, out of range [0,13)", key, first)
		}
	}
}

func TestHashed_BasicOps(t *testing.T) {
	m := NewHashed[int](8)

	a := m.Access("counter")
	if *a.Value != 0 {
		t.Errorf("absent key value = %d, want 0", *a.Value)
	}
	*a.Value = 5
	a.Release()

	if val, ok := m.Get("counter"); !ok || val != 5 {
		t.Errorf("Get(counter) = (%d, %v), want (5, true)", val, ok)
	}

	m.Set("other", 1)
	m.Erase("counter")
	m.Erase("counter") // idempotent
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	snap := m.Snapshot()
	if len(snap) != 1 || snap["other"] != 1 {
		t.Errorf("Snapshot() = %v, want map[other:1]", snap)
	}
}

func TestHashed_ConcurrentUpdate(t *testing.T) {
	const (
		workers  = 4
		keyCount = 5000
		passes   = 2
	)

	m := NewHashed[int](16)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pass := 0; pass < passes; pass++ {
				for i := 0; i < keyCount; i++ {
					a := m.Access(fmt.Sprintf("key-%d", i))
					*a.Value++
					a.Release()
				}
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if len(snap) != keyCount {
		t.Fatalf("snapshot size = %d, want %d", len(snap), keyCount)
	}
	for k, v := range snap {
		if v != workers*passes {
			t.Fatalf("key %s = %d, want %d", k, v, workers*passes)
		}
	}
}

func TestHashed_Stats(t *testing.T) {
	m := NewHashed[int](4)
	for i := 0; i < 1000; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}

	total := 0
	for _, s := range m.Stats() {
		total += s.Count
	}
	if total != 1000 {
		t.Errorf("sum of shard counts = %d, want 1000", total)
	}
}
