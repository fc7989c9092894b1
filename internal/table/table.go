package table

import (
	"time"

	"github.com/yndnr/shardmap-go/pkg/hashing"
)

// Table is an open-addressing hash table with linear probing.
type Table[K, V any] struct {
	slots      []Slot[K, V]
	occupied   int
	tombstones int

	strategy hashing.Strategy[K]
	policy   Policy
	observer Observer
}

// New creates a table with the given initial capacity.
//
// capacity must be a power of two; values below policy.MinCapacity are raised
// to it. observer may be nil.
func New[K, V any](capacity int, strategy hashing.Strategy[K], policy Policy, observer Observer) (*Table[K, V], error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if !hashing.IsPowerOfTwo(capacity) {
		return nil, ErrInvalidCapacity.WithDetailsf("capacity %d is not a power of two", capacity)
	}
	if capacity < policy.MinCapacity {
		capacity = policy.MinCapacity
	}
	if policy.MaxCapacity > 0 && capacity > policy.MaxCapacity {
		return nil, ErrInvalidCapacity.WithDetailsf("capacity %d exceeds max_capacity %d", capacity, policy.MaxCapacity)
	}

	return &Table[K, V]{
		slots:    make([]Slot[K, V], capacity),
		strategy: strategy,
		policy:   policy,
		observer: observer,
	}, nil
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int {
	return t.occupied
}

// Capacity returns the number of slots.
func (t *Table[K, V]) Capacity() int {
	return len(t.slots)
}

// Tombstones returns the number of tombstone slots.
func (t *Table[K, V]) Tombstones() int {
	return t.tombstones
}

// LoadFactor returns (occupied+tombstones)/capacity.
func (t *Table[K, V]) LoadFactor() float64 {
	return float64(t.occupied+t.tombstones) / float64(len(t.slots))
}

// Policy returns the current resize policy.
func (t *Table[K, V]) Policy() Policy {
	return t.policy
}

// SetPolicy replaces the resize policy. It takes effect at the next resize
// decision; the current capacity is left as is.
func (t *Table[K, V]) SetPolicy(p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	t.policy = p
	return nil
}

// Insert stores value under key.
//
// It returns Updated when key was already present and Inserted otherwise.
// The only error is ErrCapacityExceeded, returned when a new key does not fit
// under MaxCapacity; updates of present keys always succeed.
func (t *Table[K, V]) Insert(key K, value V) (Result, error) {
	digest := t.strategy.Digest(key)

	if err := t.reserve(); err != nil {
		if idx, ok := t.lookup(key, digest); ok {
			t.slots[idx].value = value
			return Updated, nil
		}
		return NotFound, err
	}

	switch t.place(t.slots, digest, key, value) {
	case placedUpdate:
		return Updated, nil
	case placedTombstone:
		t.tombstones--
		t.occupied++
		return Inserted, nil
	case placedEmpty:
		t.occupied++
		return Inserted, nil
	default:
		return NotFound, ErrCapacityExceeded.WithDetailsf("no free slot in %d probes", len(t.slots))
	}
}

// Find returns the value stored under key.
func (t *Table[K, V]) Find(key K) (V, bool) {
	idx, ok := t.lookup(key, t.strategy.Digest(key))
	if !ok {
		var zero V
		return zero, false
	}
	return t.slots[idx].value, true
}

// FindPair returns the key as stored together with its value. With a
// strategy whose Equal is looser than ==, the stored key may differ from the
// one passed in; updates keep the key first inserted.
func (t *Table[K, V]) FindPair(key K) (K, V, bool) {
	idx, ok := t.lookup(key, t.strategy.Digest(key))
	if !ok {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	s := &t.slots[idx]
	return s.key, s.value, true
}

// Remove deletes key, leaving a tombstone. It may shrink the table.
func (t *Table[K, V]) Remove(key K) Result {
	idx, ok := t.lookup(key, t.strategy.Digest(key))
	if !ok {
		return NotFound
	}

	t.slots[idx].bury()
	t.occupied--
	t.tombstones++

	c := len(t.slots)
	if c > t.policy.MinCapacity && float64(t.occupied)/float64(c) < t.policy.MinFillRatio {
		t.rehash(c/2, ReasonShrink)
	}
	return Removed
}

// Range calls fn for every live entry in slot order until fn returns false.
// fn must not modify the table.
func (t *Table[K, V]) Range(fn func(key K, value V) bool) bool {
	for i := range t.slots {
		s := &t.slots[i]
		if s.state != Occupied {
			continue
		}
		if !fn(s.key, s.value) {
			return false
		}
	}
	return true
}

// Reset drops every entry and reallocates the table at capacity
// (normalized like New).
func (t *Table[K, V]) Reset(capacity int) {
	t.slots = make([]Slot[K, V], t.normalize(capacity))
	t.occupied = 0
	t.tombstones = 0
}

// Rehash rebuilds the table at the given capacity, dropping tombstones.
//
// The capacity is rounded up to a power of two, raised to MinCapacity, and
// raised further until the live entries fit under MaxFillRatio. It fails with
// ErrCapacityExceeded if the result would exceed MaxCapacity. It returns the
// capacity actually used.
func (t *Table[K, V]) Rehash(capacity int) (int, error) {
	capacity = t.normalize(capacity)
	for t.overloaded(t.occupied+1, capacity) {
		capacity *= 2
	}
	if t.policy.MaxCapacity > 0 && capacity > t.policy.MaxCapacity {
		return len(t.slots), ErrCapacityExceeded.WithDetailsf("rehash to %d exceeds max_capacity %d", capacity, t.policy.MaxCapacity)
	}

	reason := ReasonCompact
	switch {
	case capacity > len(t.slots):
		reason = ReasonGrow
	case capacity < len(t.slots):
		reason = ReasonShrink
	}
	t.rehash(capacity, reason)
	return capacity, nil
}

func (t *Table[K, V]) normalize(capacity int) int {
	capacity = hashing.NextPowerOfTwo(capacity)
	if capacity < t.policy.MinCapacity {
		capacity = t.policy.MinCapacity
	}
	return capacity
}

func (t *Table[K, V]) overloaded(n, capacity int) bool {
	return float64(n)/float64(capacity) > t.policy.MaxFillRatio
}

// reserve makes room for one more entry before probing starts.
func (t *Table[K, V]) reserve() error {
	c := len(t.slots)
	if !t.overloaded(t.occupied+t.tombstones+1, c) {
		return nil
	}

	// Tombstone buildup alone: purge in place.
	if t.tombstones > 0 &&
		float64(t.tombstones) >= float64(c)*t.policy.CompactRatio &&
		!t.overloaded(t.occupied+1, c) {
		t.rehash(c, ReasonCompact)
		return nil
	}

	next := c * 2
	for t.overloaded(t.occupied+1, next) {
		next *= 2
	}
	if t.policy.MaxCapacity > 0 && next > t.policy.MaxCapacity {
		if t.tombstones > 0 {
			t.rehash(c, ReasonCompact)
			if !t.overloaded(t.occupied+1, c) {
				return nil
			}
		}
		return ErrCapacityExceeded.WithDetailsf("capacity %d at max_capacity %d", c, t.policy.MaxCapacity)
	}

	t.rehash(next, ReasonGrow)
	return nil
}

type placement uint8

const (
	placedNone placement = iota
	placedEmpty
	placedTombstone
	placedUpdate
)

// place runs the insert probe over slots.
//
// An equal occupied key is updated in place. Otherwise the pair goes into the
// first tombstone seen on the chain, or the terminating empty slot if there
// was none. The chain is followed to an empty slot even after a tombstone,
// since the key may live further along.
func (t *Table[K, V]) place(slots []Slot[K, V], digest uint64, key K, value V) placement {
	mask := len(slots) - 1
	idx := hashing.Index(digest, len(slots))
	reuse := -1

	for step := 0; step < len(slots); step++ {
		s := &slots[idx]
		switch s.state {
		case Empty:
			if reuse >= 0 {
				slots[reuse].fill(key, value)
				return placedTombstone
			}
			s.fill(key, value)
			return placedEmpty
		case Tombstone:
			if reuse < 0 {
				reuse = idx
			}
		case Occupied:
			if t.strategy.Equal(s.key, key) {
				s.value = value
				return placedUpdate
			}
		}
		idx = (idx + 1) & mask
	}

	if reuse >= 0 {
		slots[reuse].fill(key, value)
		return placedTombstone
	}
	return placedNone
}

// lookup returns the slot index holding key.
func (t *Table[K, V]) lookup(key K, digest uint64) (int, bool) {
	mask := len(t.slots) - 1
	idx := hashing.Index(digest, len(t.slots))

	for step := 0; step < len(t.slots); step++ {
		s := &t.slots[idx]
		switch s.state {
		case Empty:
			return 0, false
		case Occupied:
			if t.strategy.Equal(s.key, key) {
				return idx, true
			}
		}
		idx = (idx + 1) & mask
	}
	return 0, false
}

// rehash migrates every live entry into a fresh slot slice of the given
// capacity. capacity must already be a power of two large enough to hold the
// live entries.
func (t *Table[K, V]) rehash(capacity int, reason Reason) {
	if capacity < t.policy.MinCapacity {
		capacity = t.policy.MinCapacity
	}

	start := time.Now()
	old := t.slots
	slots := make([]Slot[K, V], capacity)

	migrated := 0
	for i := range old {
		s := &old[i]
		if s.state != Occupied {
			continue
		}
		if t.place(slots, t.strategy.Digest(s.key), s.key, s.value) != placedEmpty {
			panic(ErrRehashInvariant.WithDetailsf("entry %d could not be placed at capacity %d", migrated, capacity))
		}
		migrated++
	}
	if migrated != t.occupied {
		panic(ErrRehashInvariant.WithDetailsf("migrated %d entries, expected %d", migrated, t.occupied))
	}

	dropped := t.tombstones
	t.slots = slots
	t.tombstones = 0

	if t.observer != nil {
		t.observer.Rehashed(RehashEvent{
			Reason:   reason,
			From:     len(old),
			To:       capacity,
			Migrated: migrated,
			Dropped:  dropped,
			Duration: time.Since(start),
		})
	}
}
