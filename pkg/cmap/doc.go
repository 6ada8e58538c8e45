// Package cmap provides a sharded, lock-striped concurrent map.
//
// The map owns a fixed number of independent shards, each pairing one
// lock with one key-value table. A key is routed deterministically to
// exactly one shard, so operations on different shards never contend.
//
// Features:
//
//   - Sharding: shard count fixed at construction, one lock per shard
//   - Scoped access: Access returns a guard that holds the shard lock
//     and exposes a mutable pointer to the value for one key
//   - Snapshot: whole-map merge that locks one shard at a time
//   - Integral keys routed by uint64(key) % shardCount; a string-keyed
//     variant (Hashed) routes via MurmurHash3
//
// Usage:
//
//	m := cmap.New[int, int](16)
//	a := m.Access(42)
//	*a.Value++
//	a.Release()
//
// Thread Safety:
//
// All operations are safe for concurrent use. The snapshot is weakly
// consistent: it is a union of per-shard views taken one shard at a
// time, not an atomic view of the whole map.
package cmap
