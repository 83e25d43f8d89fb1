package idtesting

import (
	"sync"
	"sync/atomic"
)

// ManualClock only moves when told to.
type ManualClock struct {
	ms atomic.Int64
}

func NewManualClock(ms int64) *ManualClock {
	c := &ManualClock{}
	c.ms.Store(ms)
	return c
}

func (c *ManualClock) UnixMilli() int64 { return c.ms.Load() }
func (c *ManualClock) Set(ms int64)     { c.ms.Store(ms) }
func (c *ManualClock) Advance(ms int64) { c.ms.Add(ms) }

// StepClock advances by one millisecond after every Every reads. It lets a
// test hold the generator lock through a wait and still see time pass.
type StepClock struct {
	Start int64
	Every int64
	reads atomic.Int64
}

func (c *StepClock) UnixMilli() int64 {
	n := c.reads.Add(1) - 1
	every := c.Every
	if every <= 0 {
		every = 1
	}
	return c.Start + n/every
}

// Reads is the number of times the clock has been read.
func (c *StepClock) Reads() int64 { return c.reads.Load() }

// ScriptedClock returns the readings in order, then repeats the last one.
type ScriptedClock struct {
	mu       sync.Mutex
	readings []int64
	next     int
}

func NewScriptedClock(readings ...int64) *ScriptedClock {
	return &ScriptedClock{readings: readings}
}

func (c *ScriptedClock) UnixMilli() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.readings) == 0 {
		return 0
	}
	if c.next >= len(c.readings) {
		return c.readings[len(c.readings)-1]
	}
	ms := c.readings[c.next]
	c.next++
	return ms
}
