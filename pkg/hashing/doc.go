// Package hashing provides the key hashing strategies used by shardmap-go.
//
// A Strategy turns a key into a capacity-independent 64-bit digest and decides
// key equality. Tables derive a slot index from the digest with Index, which
// masks the digest against a power-of-two capacity.
//
// Only fixed-width primitive keys (the Digestible type set) are hashed from
// their raw bytes. Everything else needs an explicit strategy:
//
//	s := hashing.String[string]()                   // text keys, xxhash
//	s, err := hashing.Func(digestFn, equalFn)       // caller-supplied pair
//	s, err := hashing.ForType[uint64]()             // default for primitives
//
// Two byte mixers are available for Digestible keys: Multiplicative (the
// default) and XorShift. Memoize wraps any strategy with a digest cache whose
// entries survive table rehashes because they never depend on capacity.
//
// Router produces the shard routing digest with MurmurHash3 under its own seed,
// so shard selection is independent of the per-table strategy and its cache.
//
// All strategies in this package are safe for concurrent use.
package hashing
