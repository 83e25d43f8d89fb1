package flake

import (
	"fmt"
	"runtime"
)

// DefaultMaxSpins bounds the wait for the next tick when a generator is
// configured to wait on exhaustion. Each spin is one clock read plus a
// scheduler yield, so this is in the order of tens of milliseconds of busy
// waiting on typical hardware.
const DefaultMaxSpins = 1 << 20

// WaitTick busy waits until the clock, relative to offsetMS, reads a tick
// later than last. It returns the new tick and the number of spins it took.
//
// The caller is expected to be holding its generator lock. This burns CPU for
// the whole wait and is only appropriate for waits of a millisecond or so. If
// the clock has not advanced after maxSpins reads, WaitTick gives up with
// ErrExhausted.
func WaitTick(clock Clock, offsetMS, last int64, maxSpins int) (int64, int, error) {
	for spins := 1; spins <= maxSpins; spins++ {
		runtime.Gosched()
		if now := Tick(clock, offsetMS); now > last {
			return now, spins, nil
		}
	}
	return 0, maxSpins, fmt.Errorf("clock did not pass tick %d after %d spins: %w", last, maxSpins, ErrExhausted)
}
