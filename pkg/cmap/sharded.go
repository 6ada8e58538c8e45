package cmap

import "sync"

// Integer constrains keys to integral core types, so the unsigned cast
// and modulo used for shard routing are well-defined and cheap. For
// arbitrary string keys see Hashed.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// shard co-owns one lock and the table it guards. The table is only
// ever touched with the lock held; nothing hands it out separately.
type shard[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*V
}

// Map is a sharded concurrent map for integral keys.
//
// A key lives in exactly one shard, chosen by uint64(key) % shardCount.
// The shard slice is immutable after construction, so no lock is needed
// to find a shard, only to touch what is inside it.
type Map[K Integer, V any] struct {
	shards []*shard[K, V]
}

// New creates a map with shardCount independent shards.
//
// It panics if shardCount < 1: a map with no shards cannot route any
// key, so this is a programmer error rather than a runtime condition.
func New[K Integer, V any](shardCount int) *Map[K, V] {
	if shardCount < 1 {
		panic("cmap: shard count must be at least 1")
	}
	m := &Map[K, V]{
		shards: make([]*shard[K, V], shardCount),
	}
	for i := range m.shards {
		m.shards[i] = &shard[K, V]{items: make(map[K]*V)}
	}
	return m
}

// ShardIndex returns the index of the shard owning key. It is a pure
// function of the key and the shard count; negative keys wrap through
// the unsigned cast (two's complement) and still route consistently.
func (m *Map[K, V]) ShardIndex(key K) int {
	return int(uint64(key) % uint64(len(m.shards)))
}

func (m *Map[K, V]) shardFor(key K) *shard[K, V] {
	return m.shards[m.ShardIndex(key)]
}

// Access locks the shard owning key and returns a guard exposing a
// mutable pointer to its value. If the key is absent it is inserted
// with the zero value first, matching map-subscript semantics.
//
// The shard stays locked until Release, so guards must be short-lived.
// Holding a guard while acquiring another is a deadlock waiting to
// happen and is not protected against.
func (m *Map[K, V]) Access(key K) *Access[K, V] {
	return acquire(m.shardFor(key), key)
}

// Erase removes key from its shard. Erasing an absent key is a no-op.
func (m *Map[K, V]) Erase(key K) {
	s := m.shardFor(key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Get returns a copy of the value for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.items[key]; ok {
		return *v, true
	}
	var zero V
	return zero, false
}

// Set stores value under key, replacing any previous value.
func (m *Map[K, V]) Set(key K, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	s.items[key] = &value
	s.mu.Unlock()
}

// Len returns the total number of entries across all shards.
func (m *Map[K, V]) Len() int {
	return lenShards(m.shards)
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}

// Stats returns the entry count of each shard.
func (m *Map[K, V]) Stats() []ShardStats {
	return statsShards(m.shards)
}

// ShardStats describes one shard.
type ShardStats struct {
	Index int
	Count int
}

func lenShards[K comparable, V any](shards []*shard[K, V]) int {
	n := 0
	for _, s := range shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

func statsShards[K comparable, V any](shards []*shard[K, V]) []ShardStats {
	stats := make([]ShardStats, len(shards))
	for i, s := range shards {
		s.mu.RLock()
		stats[i] = ShardStats{Index: i, Count: len(s.items)}
		s.mu.RUnlock()
	}
	return stats
}
