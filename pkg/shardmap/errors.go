package shardmap

import (
	"github.com/yndnr/shardmap-go/internal/table"
	"github.com/yndnr/shardmap-go/pkg/errcode"
	"github.com/yndnr/shardmap-go/pkg/hashing"
)

var (
	// ErrInvalidShardCount is returned for a shard count below one.
	ErrInvalidShardCount = errcode.New("SM-CFG-4001", "invalid shard count")

	// ErrInvalidCapacity is returned for an initial capacity that is not a
	// power of two within the policy bounds.
	ErrInvalidCapacity = table.ErrInvalidCapacity

	// ErrInvalidPolicy is returned for an inconsistent resize policy.
	ErrInvalidPolicy = table.ErrInvalidPolicy

	// ErrCapacityExceeded is returned by Insert when a shard is at its
	// MaxCapacity and cannot take a new key.
	ErrCapacityExceeded = table.ErrCapacityExceeded

	// ErrUnsupportedKeyType is returned by New when no strategy can be bound
	// to the key type.
	ErrUnsupportedKeyType = hashing.ErrUnsupportedKeyType
)

// Result is the outcome of a map operation.
type Result = table.Result

const (
	NotFound = table.NotFound
	Found    = table.Found
	Inserted = table.Inserted
	Updated  = table.Updated
	Removed  = table.Removed
)

// Policy controls when shard tables grow, shrink or compact.
type Policy = table.Policy

// DefaultPolicy returns the default resize policy.
func DefaultPolicy() Policy {
	return table.DefaultPolicy()
}
