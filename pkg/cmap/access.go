package cmap

// Access is a scoped handle to the value stored under one key.
//
// It holds the owning shard's lock from creation until Release, so the
// holder may read and write *Value without further synchronization.
// Callers targeting other shards are never blocked; callers targeting
// the same shard block until the guard is released.
//
// An Access must not be copied, and Value must not be used after
// Release. Release is idempotent, so "defer a.Release()" is always
// safe even when the guard was already released on another path.
type Access[K comparable, V any] struct {
	noCopy noCopy

	// Value points at the entry for the requested key.
	// Valid only while the guard is held.
	Value *V

	shard *shard[K, V]
}

func acquire[K comparable, V any](s *shard[K, V], key K) *Access[K, V] {
	s.mu.Lock()
	v, ok := s.items[key]
	if !ok {
		v = new(V)
		s.items[key] = v
	}
	return &Access[K, V]{Value: v, shard: s}
}

// Release unlocks the owning shard and invalidates the guard.
func (a *Access[K, V]) Release() {
	if a.shard == nil {
		return
	}
	a.shard.mu.Unlock()
	a.shard = nil
	a.Value = nil
}

// noCopy triggers "go vet -copylocks" when an Access is copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
