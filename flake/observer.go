package flake

// Observer is notified of generator events. Calls are made while the
// generator holds its lock, so implementations must be fast and must not call
// back into the generator.
type Observer interface {
	// Issued is called once for every identifier returned.
	Issued()
	// Exhausted is called when a call returns ErrExhausted.
	Exhausted()
	// ClockRegressed is called when the clock reads behind the last issued
	// tick. behind is the size of the regression in milliseconds.
	ClockRegressed(behind int64)
	// Waited is called after a successful wait for the next tick.
	Waited(spins int)
	// Overflowed is called when the generator fails with ErrTimestampOverflow.
	Overflowed()
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) Issued()              {}
func (NopObserver) Exhausted()           {}
func (NopObserver) ClockRegressed(int64) {}
func (NopObserver) Waited(int)           {}
func (NopObserver) Overflowed()          {}
