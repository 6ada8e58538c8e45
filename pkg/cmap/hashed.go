package cmap

import "github.com/spaolacci/murmur3"

// Hashed is the string-keyed variant of Map.
//
// Routing replaces the integral cast with MurmurHash3, since strings
// have no unsigned cast to take a modulo of. The locking and snapshot
// contracts are identical to Map's.
type Hashed[V any] struct {
	shards []*shard[string, V]
}

// NewHashed creates a string-keyed map with shardCount shards.
// It panics if shardCount < 1, like New.
func NewHashed[V any](shardCount int) *Hashed[V] {
	if shardCount < 1 {
		panic("cmap: shard count must be at least 1")
	}
	m := &Hashed[V]{
		shards: make([]*shard[string, V], shardCount),
	}
	for i := range m.shards {
		m.shards[i] = &shard[string, V]{items: make(map[string]*V)}
	}
	return m
}

// ShardIndex returns the index of the shard owning key.
func (m *Hashed[V]) ShardIndex(key string) int {
	return int(murmur3.Sum64([]byte(key)) % uint64(len(m.shards)))
}

func (m *Hashed[V]) shardFor(key string) *shard[string, V] {
	return m.shards[m.ShardIndex(key)]
}

// Access locks the shard owning key and returns a guard to its value,
// inserting the zero value first if the key is absent.
func (m *Hashed[V]) Access(key string) *Access[string, V] {
	return acquire(m.shardFor(key), key)
}

// Erase removes key from its shard. Absent keys are a no-op.
func (m *Hashed[V]) Erase(key string) {
	s := m.shardFor(key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Get returns a copy of the value for key.
func (m *Hashed[V]) Get(key string) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.items[key]; ok {
		return *v, true
	}
	var zero V
	return zero, false
}

// Set stores value under key.
func (m *Hashed[V]) Set(key string, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	s.items[key] = &value
	s.mu.Unlock()
}

// Len returns the total number of entries.
func (m *Hashed[V]) Len() int {
	return lenShards(m.shards)
}

// ShardCount returns the number of shards.
func (m *Hashed[V]) ShardCount() int {
	return len(m.shards)
}

// Stats returns the entry count of each shard.
func (m *Hashed[V]) Stats() []ShardStats {
	return statsShards(m.shards)
}

// Snapshot merges every shard into one ordinary map.
// Same shard-at-a-time consistency contract as Map.Snapshot.
func (m *Hashed[V]) Snapshot() map[string]V {
	return snapshotShards(m.shards)
}

// Range iterates over all entries until fn returns false.
func (m *Hashed[V]) Range(fn func(key string, value V) bool) {
	rangeShards(m.shards, fn)
}
