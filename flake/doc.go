// Package flake holds what the 64 bit and 128 bit generators share: the clock
// and entropy collaborators, the observer hook and the error taxonomy.
//
// Errors fall into three groups:
//
//   - ErrConfig (and the errors wrapping it) is returned by constructors only.
//     The generator is never created.
//   - ErrExhausted is an ordinary per call outcome. No identifier was available
//     in the current tick; retry later, or configure the generator to wait.
//   - ErrTimestampOverflow means the timestamp field can no longer represent
//     the current tick. The instance is permanently failed and must be
//     replaced.
package flake
