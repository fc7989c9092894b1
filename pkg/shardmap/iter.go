package shardmap

import "github.com/yndnr/shardmap-go/internal/telemetry/metric"

// Pair is a key and its value.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// ShardStats is a point-in-time view of one shard.
type ShardStats struct {
	Index      int
	Capacity   int
	Occupied   int
	Tombstones int
}

// LoadFactor returns (Occupied+Tombstones)/Capacity.
func (s ShardStats) LoadFactor() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Occupied+s.Tombstones) / float64(s.Capacity)
}

// Range calls fn for every entry until fn returns false.
//
// Shards are visited in index order, each under its own lock, so the view is
// not a consistent snapshot of the whole map. Order within a shard is slot
// order. fn must not call back into the map.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, s := range m.shards {
		s.mu.Lock()
		more := s.table.Range(fn)
		s.mu.Unlock()
		if !more {
			return
		}
	}
}

// Keys returns all keys.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.ApproxSize())
	m.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Items returns all entries.
func (m *Map[K, V]) Items() []Pair[K, V] {
	items := make([]Pair[K, V], 0, m.ApproxSize())
	m.Range(func(key K, value V) bool {
		items = append(items, Pair[K, V]{Key: key, Value: value})
		return true
	})
	return items
}

// Stats returns the state of every shard, locking one shard at a time.
func (m *Map[K, V]) Stats() []ShardStats {
	stats := make([]ShardStats, len(m.shards))
	for i, s := range m.shards {
		stats[i] = s.stats()
	}
	return stats
}

// Clear removes every entry and resets every shard to the initial capacity.
func (m *Map[K, V]) Clear() {
	for _, s := range m.shards {
		s.reset(m.cfg.InitialCapacity)
	}
	m.log.Debug("map cleared", "shards", len(m.shards))
}

func (m *Map[K, V]) samples() []metric.ShardSample {
	stats := m.Stats()
	samples := make([]metric.ShardSample, len(stats))
	for i, st := range stats {
		samples[i] = metric.ShardSample{
			Shard:      st.Index,
			Capacity:   st.Capacity,
			Occupied:   st.Occupied,
			Tombstones: st.Tombstones,
		}
	}
	return samples
}
