package table

import "github.com/yndnr/shardmap-go/pkg/errcode"

// Result is the outcome of a table operation.
type Result uint8

const (
	NotFound Result = iota
	Found
	Inserted
	Updated
	Removed
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case NotFound:
		return "not_found"
	case Found:
		return "found"
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

var (
	// ErrCapacityExceeded is returned by Insert when growth would exceed the
	// policy's MaxCapacity.
	ErrCapacityExceeded = errcode.New("SM-TBL-5070", "table capacity exceeded")

	// ErrInvalidCapacity is returned for a capacity that is not a power of two.
	ErrInvalidCapacity = errcode.New("SM-CFG-4002", "invalid capacity")

	// ErrInvalidPolicy is returned by Policy.Validate.
	ErrInvalidPolicy = errcode.New("SM-CFG-4003", "invalid resize policy")

	// ErrRehashInvariant is the panic value raised when a rehash loses or
	// duplicates entries, which only happens with a strategy whose Equal and
	// Digest disagree.
	ErrRehashInvariant = errcode.New("SM-TBL-5000", "rehash invariant violated")
)
