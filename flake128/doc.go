// Package flake128 generates 128 bit, time ordered, unique identifiers.
//
// # Format
//
// An ID is 16 bytes, most significant byte first:
//
//	[48 bit timestamp][16 bit machine id][64 bit payload]
//
// The timestamp is milliseconds since the offset (2020-01-01 by default),
// which lasts roughly 8900 years. Byte wise comparison of two ids orders them
// by time first.
//
// # Payload
//
// On the first id of each tick the payload is drawn from a cryptographically
// strong entropy source. Further ids in the same tick increment it, so ids from
// one generator are strictly increasing, and ids from generators that share a
// machine id by mistake are still very unlikely to collide. A tick is exhausted
// only when the counter reaches the top of the 64 bit range.
//
// Usage
//
//	g, err := flake128.NewGenerator(flake128.DefaultConfig(machineID))
//	id, err := g.NextID()
//	s := id.String() // 8-4-4-4-12 hex
package flake128
