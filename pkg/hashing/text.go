package hashing

import (
	"bytes"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// String returns a strategy for text keys backed by xxhash.
func String[K ~string]() Strategy[K] {
	return stringStrategy[K]{}
}

type stringStrategy[K ~string] struct{}

func (stringStrategy[K]) Digest(key K) uint64 {
	return xxhash.Sum64String(string(key))
}

func (stringStrategy[K]) Equal(a, b K) bool {
	return a == b
}

func (stringStrategy[K]) rawBytes(key *K) []byte {
	s := string(*key)
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Bytes returns a strategy for byte-slice keys backed by xxhash.
//
// The map stores the slice header, not a copy: callers must not mutate a key
// slice after inserting it.
func Bytes[K ~[]byte]() Strategy[K] {
	return bytesStrategy[K]{}
}

type bytesStrategy[K ~[]byte] struct{}

func (bytesStrategy[K]) Digest(key K) uint64 {
	return xxhash.Sum64(key)
}

func (bytesStrategy[K]) Equal(a, b K) bool {
	return bytes.Equal(a, b)
}

func (bytesStrategy[K]) rawBytes(key *K) []byte {
	return *key
}
