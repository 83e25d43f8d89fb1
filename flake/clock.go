package flake

import (
	"fmt"
	"time"
)

// DefaultOffsetMS is 2020-01-01T00:00:00Z in unix milliseconds. Both
// generators subtract it from the clock by default.
const DefaultOffsetMS int64 = 1577836800000

// Clock supplies the current unix time in milliseconds. Implementations must
// be safe for concurrent use. Readings are not required to be monotonic.
type Clock interface {
	UnixMilli() int64
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() int64

func (f ClockFunc) UnixMilli() int64 { return f() }

// SystemClock reads the wall clock. It goes backwards whenever the operating
// system clock does.
type SystemClock struct{}

func (SystemClock) UnixMilli() int64 { return time.Now().UnixMilli() }

// MonotonicClock reports wall clock time as observed at construction, advanced
// by the process monotonic clock. It never goes backwards, and it ignores wall
// clock adjustments made after it was created. On hosts that sleep it may
// pause.
type MonotonicClock struct {
	start     time.Time // includes the monotonic reading
	startWall int64
}

// NewMonotonicClock anchors a MonotonicClock to the current wall clock time.
func NewMonotonicClock() *MonotonicClock {
	// DONT call UTC() here, it strips the monotonic reading
	start := time.Now()
	return &MonotonicClock{start: start, startWall: start.UnixMilli()}
}

func (c *MonotonicClock) UnixMilli() int64 {
	return c.startWall + int64(time.Since(c.start)/time.Millisecond)
}

// OffsetFromTime converts a reference time to the offset form the generators
// are configured with.
func OffsetFromTime(t time.Time) int64 {
	return t.UnixMilli()
}

// CheckOffset returns ErrOffsetInFuture if offsetMS is later than the clock's
// current reading. A future offset would make the first tick negative.
func CheckOffset(clock Clock, offsetMS int64) error {
	if clock == nil {
		return ErrClockUnset
	}
	now := clock.UnixMilli()
	if offsetMS > now {
		return fmt.Errorf("offset %d is %dms ahead of the clock: %w", offsetMS, offsetMS-now, ErrOffsetInFuture)
	}
	return nil
}

// Tick returns the clock reading relative to offsetMS. Readings before the
// offset are clamped to zero.
func Tick(clock Clock, offsetMS int64) int64 {
	now := clock.UnixMilli() - offsetMS
	if now < 0 {
		return 0
	}
	return now
}
