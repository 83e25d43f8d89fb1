package snowflakeid

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrMilliOverflow = errors.New("the id timestamp plus the offset overflows an int64 of milliseconds")
)

// UnixMilli returns the unix millisecond time encoded in id.
func (l Layout) UnixMilli(id uint64, offsetMS int64) (int64, error) {
	ms := l.Split(id).Timestamp
	if offsetMS > 0 && ms > math.MaxInt64-offsetMS {
		return 0, fmt.Errorf("%d to large (when added to offset %d): %w", ms, offsetMS, ErrMilliOverflow)
	}
	return ms + offsetMS, nil
}

// IDTime returns the time encoded in id, in UTC. Overflowing values are
// clamped rather than reported, use UnixMilli to detect them.
func (l Layout) IDTime(id uint64, offsetMS int64) time.Time {
	ms, err := l.UnixMilli(id, offsetMS)
	if err != nil {
		ms = math.MaxInt64
	}
	return time.UnixMilli(ms).UTC()
}

// FirstID returns the smallest id the layout can produce for t, for any
// machine. It is useful as the inclusive lower bound of an id range scan.
// Times before the offset map to 0.
func (l Layout) FirstID(t time.Time, offsetMS int64) uint64 {
	ms := t.UnixMilli() - offsetMS
	if ms < 0 {
		return 0
	}
	if uint64(ms) > l.MaxTimestamp() {
		ms = int64(l.MaxTimestamp())
	}
	return l.encode(ms, 0, 0)
}

// IDTime is the time of an id issued by g.
func (g *Generator) IDTime(id uint64) time.Time {
	return g.layout.IDTime(id, g.offsetMS)
}

// Split decodes an id issued by g.
func (g *Generator) Split(id uint64) Parts {
	return g.layout.Split(id)
}
