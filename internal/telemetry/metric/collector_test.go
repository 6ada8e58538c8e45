package metric

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mstitov/stripemap/pkg/cmap"
)

func TestShardCollector(t *testing.T) {
	m := cmap.New[int, int](4)
	for i := 0; i < 100; i++ {
		m.Set(i, i)
	}

	c := NewShardCollector(m.Stats)

	expected := `
# HELP stripemap_shards Number of shards in the map.
# TYPE stripemap_shards gauge
stripemap_shards 4
# HELP stripemap_shard_entries Number of entries currently held by each shard.
# TYPE stripemap_shard_entries gauge
stripemap_shard_entries{shard="0"} 25
stripemap_shard_entries{shard="1"} 25
stripemap_shard_entries{shard="2"} 25
stripemap_shard_entries{shard="3"} 25
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected collector output: %v", err)
	}
}

func TestShardCollector_LiveView(t *testing.T) {
	m := cmap.New[int, int](2)
	c := NewShardCollector(m.Stats)

	if n := testutil.CollectAndCount(c); n != 3 { // shards gauge + 2 shard entries
		t.Errorf("metric count = %d, want 3", n)
	}

	m.Set(1, 1)
	m.Set(2, 2)

	r := NewRegistry()
	if err := r.Register(c); err != nil {
		t.Fatalf("register collector: %v", err)
	}

	got, err := testutil.GatherAndCount(r.Gatherer(), "stripemap_shard_entries")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got != 2 {
		t.Errorf("shard_entries series = %d, want 2", got)
	}
}
