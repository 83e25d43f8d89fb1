// Package snowflakeid generates 64 bit, time ordered, unique identifiers.
//
// An id is laid out, most to least significant, as
//
//	[timestamp bits][machine bits][sequence bits]
//
// The field widths are configurable and must sum to the identifier width: 63
// for ids that must fit a signed int64, 64 for unsigned ids. The default
// widths are 41/12/10 with an offset of 2020-01-01, which gives roughly 69
// years of ids, 4096 machines and 1024 ids per machine per millisecond.
//
// The following properties hold for the ids of one Generator:
//
// * Every id is unique, provided no other generator shares the machine id.
// * Ids never decrease, even if the clock does. A backwards clock is treated
// exactly like a repeated reading of the last tick.
// * The timestamp field is a fair, millisecond granular, reflection of the
// clock. It is not an attestation of precise time.
//
// When the sequence for the current tick is used up the generator either
// reports flake.ErrExhausted or, if configured to, spins until the clock
// advances.
package snowflakeid
