package hashing

import "github.com/yndnr/shardmap-go/pkg/errcode"

var (
	// ErrUnsupportedKeyType is returned when no digest strategy can be bound
	// to a key type.
	ErrUnsupportedKeyType = errcode.New("SM-HASH-4150", "unsupported key type")

	// ErrNotFound is returned by Memoized.PrecomputedDigest for a key that was
	// never digested.
	ErrNotFound = errcode.New("SM-HASH-4040", "precomputed digest not found")
)
