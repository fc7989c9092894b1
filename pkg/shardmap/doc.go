// Package shardmap provides a concurrent, sharded, open-addressing hash map.
//
// The map is split into a fixed number of shards. Each shard owns one
// open-addressing table (linear probing, tombstones, automatic grow/shrink)
// and one mutex that is held for the full duration of every operation on
// that shard, rehash included. Keys are routed to shards with a MurmurHash3
// digest that is independent of the tables' own hashing strategy, so routing
// never changes while individual shards resize.
//
// Usage:
//
//	m, err := shardmap.New[uint64, *Session](shardmap.DefaultConfig(), nil)
//	if err != nil {
//		return err
//	}
//	m.Insert(42, session)
//	s, ok := m.Find(42)
//
// Key types:
//
// A nil strategy binds the default byte-mixing strategy, which only accepts
// fixed-width primitive keys; any other key type fails at construction with
// ErrUnsupportedKeyType. Text, byte-slice and composite keys need an explicit
// strategy from package hashing:
//
//	m, err := shardmap.New[string, int](cfg, hashing.String[string]())
//
// Thread safety:
//
// All methods are safe for concurrent use. Operations on the same shard are
// linearizable. Size is exact and briefly locks every shard; ApproxSize does
// not lock and may lag concurrent writers.
//
// Observability:
//
// Rehash events are logged at debug level. WithRegisterer exports operation
// and rehash counters plus per-shard gauges to Prometheus.
package shardmap
