package hashing

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// DefaultRouteSeed is the MurmurHash3 seed used for shard routing.
const DefaultRouteSeed uint32 = 0x9747b28c

// Router selects a shard for a key.
//
// It digests keys with MurmurHash3 under its own seed. Strategies that hash a
// byte view of the key (Digestible, String, Bytes) are routed on those bytes
// directly; any other strategy is routed on its base digest, remixed. The
// router never touches a Memoized cache, so routing stays stable however the
// per-shard tables grow, shrink or cache.
type Router[K any] struct {
	base Strategy[K]
	raw  rawKeyer[K]
	seed uint32
}

// NewRouter creates a router over s.
func NewRouter[K any](s Strategy[K], seed uint32) Router[K] {
	base := Base(s)
	raw, _ := base.(rawKeyer[K])
	return Router[K]{
		base: base,
		raw:  raw,
		seed: seed,
	}
}

// Digest returns the routing digest of key.
func (r Router[K]) Digest(key K) uint64 {
	if r.raw != nil {
		return murmur3.Sum64WithSeed(r.raw.rawBytes(&key), r.seed)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], r.base.Digest(key))
	return murmur3.Sum64WithSeed(buf[:], r.seed)
}

// Route returns the shard index of key among n shards. n must be positive.
func (r Router[K]) Route(key K, n int) int {
	return int(r.Digest(key) % uint64(n))
}
