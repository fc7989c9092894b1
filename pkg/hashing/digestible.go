package hashing

import (
	"bytes"
	"unsafe"
)

// Digestible is the set of key types that can be hashed from their raw bytes.
type Digestible interface {
	~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 |
		~complex64 | ~complex128
}

// FNV-1a 64-bit parameters.
const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Multiplicative returns the default strategy for Digestible keys: a
// multiply-add over the key bytes, folded so the high bits reach the index.
//
// Equality is raw-byte equality, which keeps it consistent with the digest:
// a NaN key finds itself and +0 and -0 are different keys.
func Multiplicative[K Digestible]() Strategy[K] {
	return byteStrategy[K]{mix: mixMultiplicative}
}

// XorShift returns the alternative xor-shift mixing strategy for Digestible
// keys. Equality semantics match Multiplicative.
func XorShift[K Digestible]() Strategy[K] {
	return byteStrategy[K]{mix: mixXorShift}
}

func mixMultiplicative(b []byte) uint64 {
	h := offset64
	for _, c := range b {
		h = h*prime64 + uint64(c)
	}
	return h ^ (h >> 32)
}

func mixXorShift(b []byte) uint64 {
	var h uint64
	for _, c := range b {
		h ^= uint64(c)
		h ^= h >> 27
		h ^= h << 5
	}
	return fmix64(h)
}

// fmix64 is the MurmurHash3 finalizer. Without it the shifts above leave the
// low bits unmixed for keys whose low bytes are constant.
func fmix64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// byteStrategy must only be instantiated for fixed-width primitive K.
type byteStrategy[K any] struct {
	mix func([]byte) uint64
}

func (s byteStrategy[K]) Digest(key K) uint64 {
	return s.mix(bytesOf(&key))
}

func (s byteStrategy[K]) Equal(a, b K) bool {
	return bytes.Equal(bytesOf(&a), bytesOf(&b))
}

func (s byteStrategy[K]) rawBytes(key *K) []byte {
	return bytesOf(key)
}

func bytesOf[K any](key *K) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(key)), unsafe.Sizeof(*key))
}
