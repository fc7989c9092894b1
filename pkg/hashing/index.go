package hashing

import "math/bits"

// Index maps a digest onto a slot index. capacity must be a power of two.
func Index(digest uint64, capacity int) int {
	return int(digest & uint64(capacity-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
