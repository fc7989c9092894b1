// Package table implements the open-addressing hash table behind each shard.
//
// A Table is a power-of-two slice of slots probed linearly from
// hashing.Index(digest, capacity). Removal leaves a tombstone so probe chains
// through the removed slot stay intact; tombstones are reused by later inserts
// and dropped whenever the table is rehashed.
//
// Resizing follows a Policy:
//
//   - before an insert that would push (occupied+tombstones+1)/capacity past
//     MaxFillRatio the table grows to twice its capacity, or is compacted in
//     place when tombstones alone account for the pressure
//   - after a remove that leaves occupied/capacity below MinFillRatio the table
//     shrinks to half its capacity, never below MinCapacity
//
// Because growth happens before probing, at least one slot is always empty and
// every probe loop terminates; loops are still bounded by an explicit step
// counter.
//
// A Table is not safe for concurrent use. The shard that owns it serializes
// every call, rehash included.
package table
