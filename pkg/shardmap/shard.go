package shardmap

import (
	"sync"
	"sync/atomic"

	"github.com/yndnr/shardmap-go/internal/table"
)

// shard is one table behind one mutex. The mutex is held for the whole of
// every operation, including a rehash triggered by it.
type shard[K, V any] struct {
	mu    sync.Mutex
	table *table.Table[K, V]
	index int

	// count mirrors table.Len for ApproxSize; written under mu.
	count atomic.Int64
}

func (s *shard[K, V]) insert(key K, value V) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.table.Insert(key, value)
	s.count.Store(int64(s.table.Len()))
	return res, err
}

func (s *shard[K, V]) remove(key K) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.table.Remove(key)
	s.count.Store(int64(s.table.Len()))
	return res
}

func (s *shard[K, V]) find(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Find(key)
}

func (s *shard[K, V]) findPair(key K) (K, V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.FindPair(key)
}

func (s *shard[K, V]) reset(capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.Reset(capacity)
	s.count.Store(0)
}

func (s *shard[K, V]) setPolicy(p Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.SetPolicy(p)
}

func (s *shard[K, V]) stats() ShardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ShardStats{
		Index:      s.index,
		Capacity:   s.table.Capacity(),
		Occupied:   s.table.Len(),
		Tombstones: s.table.Tombstones(),
	}
}
