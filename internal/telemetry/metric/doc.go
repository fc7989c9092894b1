// Package metric provides Prometheus metrics for shardmap-go.
//
// A Recorder counts map operations and rehash events and registers a
// collector that reports per-shard capacity, occupancy and tombstones at
// scrape time. Every metric carries a constant "map" label so several maps
// can share one registry.
//
// All Recorder methods are safe on a nil receiver, which is what a map built
// without a registerer uses.
package metric
