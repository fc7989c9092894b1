package table

import "github.com/yndnr/shardmap-go/pkg/hashing"

// Default policy values.
const (
	DefaultMinCapacity  = 8
	DefaultMaxFillRatio = 0.75
	DefaultMinFillRatio = 0.3
	DefaultCompactRatio = 0.125
)

// Policy controls when a table grows, shrinks or compacts.
type Policy struct {
	// MinCapacity is the floor for shrinking; a power of two.
	MinCapacity int `koanf:"min_capacity"`
	// MaxCapacity bounds growth; 0 means unbounded.
	MaxCapacity int `koanf:"max_capacity"`
	// MaxFillRatio is the (occupied+tombstones)/capacity ceiling.
	MaxFillRatio float64 `koanf:"max_fill_ratio"`
	// MinFillRatio is the occupied/capacity floor below which a remove
	// shrinks the table; 0 disables shrinking.
	MinFillRatio float64 `koanf:"min_fill_ratio"`
	// CompactRatio is the tombstones/capacity share at which an overloaded
	// table is rehashed in place instead of grown.
	CompactRatio float64 `koanf:"compact_ratio"`
}

// DefaultPolicy returns the default resize policy.
func DefaultPolicy() Policy {
	return Policy{
		MinCapacity:  DefaultMinCapacity,
		MaxFillRatio: DefaultMaxFillRatio,
		MinFillRatio: DefaultMinFillRatio,
		CompactRatio: DefaultCompactRatio,
	}
}

// Validate checks the policy for consistency.
func (p Policy) Validate() error {
	if !hashing.IsPowerOfTwo(p.MinCapacity) {
		return ErrInvalidPolicy.WithDetailsf("min_capacity %d is not a power of two", p.MinCapacity)
	}
	if p.MaxCapacity != 0 {
		if !hashing.IsPowerOfTwo(p.MaxCapacity) || p.MaxCapacity < p.MinCapacity {
			return ErrInvalidPolicy.WithDetailsf("max_capacity %d must be 0 or a power of two >= min_capacity", p.MaxCapacity)
		}
	}
	if p.MaxFillRatio <= 0 || p.MaxFillRatio >= 1 {
		return ErrInvalidPolicy.WithDetailsf("max_fill_ratio %.3f must be in (0, 1)", p.MaxFillRatio)
	}
	if p.MinFillRatio < 0 || p.MinFillRatio*2 > p.MaxFillRatio {
		// A shrink halves capacity and doubles the load; it must not land
		// above the growth threshold.
		return ErrInvalidPolicy.WithDetailsf("min_fill_ratio %.3f must be in [0, max_fill_ratio/2]", p.MinFillRatio)
	}
	if p.CompactRatio <= 0 || p.CompactRatio >= 1 {
		return ErrInvalidPolicy.WithDetailsf("compact_ratio %.3f must be in (0, 1)", p.CompactRatio)
	}
	return nil
}
