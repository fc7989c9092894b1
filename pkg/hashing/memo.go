package hashing

import (
	"math"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memoized caches the digest of recently seen keys.
//
// Cached values are the capacity-independent digests, so they stay valid
// across table rehashes. The cache is an LRU bounded by the limit given to
// Memoize; evicted keys are simply digested again.
//
// Keys of byte-view strategies (Digestible, String) are cached by their raw
// bytes, matching the strategies' own equality, so a NaN key hits its own
// entry. For other strategies a key that is not == to itself is digested but
// never cached.
type Memoized[K comparable] struct {
	base  Strategy[K]
	raw   rawKeyer[K]
	cache *lru.Cache[any, uint64]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Memoize wraps s with a digest cache holding at most limit keys
// (limit <= 0 means unbounded).
func Memoize[K comparable](s Strategy[K], limit int) *Memoized[K] {
	if limit <= 0 {
		limit = math.MaxInt
	}
	cache, err := lru.New[any, uint64](limit)
	if err != nil {
		// lru.New only rejects non-positive sizes.
		panic(err)
	}
	raw, _ := Base(s).(rawKeyer[K])
	return &Memoized[K]{
		base:  s,
		raw:   raw,
		cache: cache,
	}
}

// cacheKey returns the cache identity of key, or false if key cannot be
// cached.
func (m *Memoized[K]) cacheKey(key K) (any, bool) {
	if m.raw != nil {
		return string(m.raw.rawBytes(&key)), true
	}
	if key != key {
		return nil, false
	}
	return key, true
}

// Digest returns the cached digest for key, computing and caching it on a miss.
func (m *Memoized[K]) Digest(key K) uint64 {
	ck, ok := m.cacheKey(key)
	if !ok {
		m.misses.Add(1)
		return m.base.Digest(key)
	}
	if d, ok := m.cache.Get(ck); ok {
		m.hits.Add(1)
		return d
	}

	m.misses.Add(1)
	d := m.base.Digest(key)
	m.cache.Add(ck, d)
	return d
}

// Equal delegates to the wrapped strategy. Equality never consults the cache.
func (m *Memoized[K]) Equal(a, b K) bool {
	return m.base.Equal(a, b)
}

// PrecomputedDigest returns the cached digest for key.
// It returns ErrNotFound if key was never digested or has since been evicted.
// It is not a membership test for any table.
func (m *Memoized[K]) PrecomputedDigest(key K) (uint64, error) {
	ck, ok := m.cacheKey(key)
	if !ok {
		return 0, ErrNotFound
	}
	d, ok := m.cache.Peek(ck)
	if !ok {
		return 0, ErrNotFound
	}
	return d, nil
}

// Unwrap returns the wrapped strategy.
func (m *Memoized[K]) Unwrap() Strategy[K] {
	return m.base
}

// Len returns the number of cached digests.
func (m *Memoized[K]) Len() int {
	return m.cache.Len()
}

// Forget drops key from the cache.
func (m *Memoized[K]) Forget(key K) {
	if ck, ok := m.cacheKey(key); ok {
		m.cache.Remove(ck)
	}
}

// Reset drops every cached digest.
func (m *Memoized[K]) Reset() {
	m.cache.Purge()
}

// Stats returns the cache hit and miss counts.
func (m *Memoized[K]) Stats() (hits, misses uint64) {
	return m.hits.Load(), m.misses.Load()
}
