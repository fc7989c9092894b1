package shardmap

import (
	"fmt"
	"sync"

	"github.com/yndnr/shardmap-go/internal/table"
	"github.com/yndnr/shardmap-go/internal/telemetry/logger"
	"github.com/yndnr/shardmap-go/internal/telemetry/metric"
	"github.com/yndnr/shardmap-go/pkg/hashing"
)

// Operation names used in metrics.
const (
	opInsert = "insert"
	opRemove = "remove"
	opFind   = "find"
)

// Map is a concurrent, sharded, open-addressing hash map.
type Map[K, V any] struct {
	shards  []*shard[K, V]
	router  hashing.Router[K]
	cfg     Config
	log     logger.Logger
	metrics *metric.Recorder

	policyMu sync.Mutex
	policy   Policy
}

// New creates a map from cfg.
//
// strategy hashes and compares keys inside every shard; nil binds
// hashing.ForType, which fails with ErrUnsupportedKeyType for keys that are
// not fixed-width primitives.
func New[K, V any](cfg Config, strategy hashing.Strategy[K], opts ...Option) (*Map[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strategy == nil {
		s, err := hashing.ForType[K]()
		if err != nil {
			return nil, err
		}
		strategy = s
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		log = logger.New(cfg.Log)
	}

	m := &Map[K, V]{
		shards: make([]*shard[K, V], cfg.ShardCount),
		router: hashing.NewRouter(strategy, o.routeSeed),
		cfg:    cfg,
		log:    log.With("map", cfg.Name),
		policy: cfg.Policy,
	}

	for i := range m.shards {
		tbl, err := table.New[K, V](cfg.InitialCapacity, strategy, cfg.Policy, m.observer(i))
		if err != nil {
			return nil, fmt.Errorf("create shard %d: %w", i, err)
		}
		m.shards[i] = &shard[K, V]{table: tbl, index: i}
	}

	if o.registerer != nil {
		rec, err := metric.NewRecorder(o.registerer, cfg.Name, m.samples)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		m.metrics = rec
	}

	m.log.Debug("map created",
		"shards", cfg.ShardCount,
		"initial_capacity", cfg.InitialCapacity,
		"max_fill_ratio", cfg.Policy.MaxFillRatio,
		"min_fill_ratio", cfg.Policy.MinFillRatio,
	)
	return m, nil
}

// observer reports rehashes of shard i. It runs with that shard's lock held.
func (m *Map[K, V]) observer(i int) table.Observer {
	return table.ObserverFunc(func(ev table.RehashEvent) {
		m.metrics.Rehash(ev.Reason.String(), ev.Duration)
		m.log.Debug("shard rehashed",
			"shard", i,
			"reason", ev.Reason.String(),
			"from", ev.From,
			"to", ev.To,
			"migrated", ev.Migrated,
			"dropped", ev.Dropped,
			"duration", ev.Duration,
		)
	})
}

func (m *Map[K, V]) shardFor(key K) *shard[K, V] {
	return m.shards[m.router.Route(key, len(m.shards))]
}

// Insert stores value under key, replacing any previous value.
//
// It returns Inserted or Updated. A new key that does not fit in a shard at
// MaxCapacity fails with ErrCapacityExceeded and leaves the map unchanged.
func (m *Map[K, V]) Insert(key K, value V) (Result, error) {
	s := m.shardFor(key)
	res, err := s.insert(key, value)
	if err != nil {
		m.metrics.Op(opInsert, "error")
		m.log.Warn("insert rejected", "shard", s.index, "error", err)
		return res, err
	}
	m.metrics.Op(opInsert, res.String())
	return res, nil
}

// Remove deletes key. It returns Removed, or NotFound if key was absent.
func (m *Map[K, V]) Remove(key K) Result {
	res := m.shardFor(key).remove(key)
	m.metrics.Op(opRemove, res.String())
	return res
}

// InsertPair stores p.Value under p.Key. See Insert.
func (m *Map[K, V]) InsertPair(p Pair[K, V]) (Result, error) {
	return m.Insert(p.Key, p.Value)
}

// Find returns the value stored under key.
func (m *Map[K, V]) Find(key K) (V, bool) {
	v, ok := m.shardFor(key).find(key)
	m.recordFind(ok)
	return v, ok
}

// FindPair returns the entry equal to key, with the key as it was first
// inserted. It differs from key only under a strategy whose Equal is looser
// than ==, such as case-insensitive text.
func (m *Map[K, V]) FindPair(key K) (K, V, bool) {
	k, v, ok := m.shardFor(key).findPair(key)
	m.recordFind(ok)
	return k, v, ok
}

func (m *Map[K, V]) recordFind(ok bool) {
	if ok {
		m.metrics.Op(opFind, Found.String())
	} else {
		m.metrics.Op(opFind, NotFound.String())
	}
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Find(key)
	return ok
}

// Size returns the exact number of entries.
//
// It locks every shard in ascending order, so it blocks writers for its
// duration and must not be called from a Range callback.
func (m *Map[K, V]) Size() int {
	for _, s := range m.shards {
		s.mu.Lock()
	}
	n := 0
	for _, s := range m.shards {
		n += s.table.Len()
	}
	for i := len(m.shards) - 1; i >= 0; i-- {
		m.shards[i].mu.Unlock()
	}
	return n
}

// ApproxSize returns the number of entries without locking. Under concurrent
// writes the result may be stale.
func (m *Map[K, V]) ApproxSize() int {
	var n int64
	for _, s := range m.shards {
		n += s.count.Load()
	}
	return int(n)
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}

// ShardFor returns the index of the shard that owns key.
func (m *Map[K, V]) ShardFor(key K) int {
	return m.router.Route(key, len(m.shards))
}

// Config returns the configuration the map was created with. Policy reflects
// the latest SetPolicy.
func (m *Map[K, V]) Config() Config {
	cfg := m.cfg
	cfg.Policy = m.Policy()
	return cfg
}

// Close unregisters the map's metrics. The map stays usable.
func (m *Map[K, V]) Close() error {
	if m.metrics == nil {
		return nil
	}
	return m.metrics.Unregister()
}
