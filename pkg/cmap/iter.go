package cmap

import "slices"

// Snapshot merges every shard into one ordinary map.
//
// Shards are visited in index order; each shard is locked, copied and
// unlocked before the next is touched, so no two shard locks are ever
// held at once. The result is therefore a union of per-shard views,
// not an atomic view of the whole map: a writer may mutate shard k+1
// after shard k has already been copied. That weaker contract is
// deliberate; a globally locked snapshot would reintroduce the single
// bottleneck sharding exists to avoid.
func (m *Map[K, V]) Snapshot() map[K]V {
	return snapshotShards(m.shards)
}

// Range iterates over all entries until fn returns false.
// Same shard-at-a-time consistency contract as Snapshot.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	rangeShards(m.shards, fn)
}

// SortedKeys returns every key currently in the map in ascending
// order. Go's builtin map iterates in random order, so this is the
// ordered view of what Snapshot returns.
func (m *Map[K, V]) SortedKeys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	slices.Sort(keys)
	return keys
}

func snapshotShards[K comparable, V any](shards []*shard[K, V]) map[K]V {
	result := make(map[K]V, lenShards(shards))
	for _, s := range shards {
		s.mu.RLock()
		for k, v := range s.items {
			result[k] = *v
		}
		s.mu.RUnlock()
	}
	return result
}

func rangeShards[K comparable, V any](shards []*shard[K, V], fn func(K, V) bool) {
	for _, s := range shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, *v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}
