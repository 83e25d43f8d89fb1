package snowflakeid

import (
	"fmt"
	"sync"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-flakeid/flake"
)

// Generator issues ids for one machine id. It is safe for concurrent use.
type Generator struct {
	layout    Layout
	offsetMS  int64
	machineID uint64
	wait      bool
	maxSpins  int

	clock flake.Clock
	obs   flake.Observer
	log   logger.Logger

	// mu guards everything below. It is held for the whole of next, including
	// any wait for the clock.
	mu sync.Mutex

	// lastTimestamp is the tick of the last issued id. It only ever
	// increases. It starts at -1 so that the first call always takes the
	// advance branch.
	lastTimestamp int64
	sequence      uint64

	// overflowed is sticky. Once the timestamp field can not hold the clock
	// the instance is done.
	overflowed bool
}

func NewGenerator(cfg Config) (*Generator, error) {
	cfg = cfg.withDefaults()

	layout, err := cfg.Bits.Layout(cfg.Width)
	if err != nil {
		return nil, err
	}
	if cfg.MaxSpins < 0 {
		return nil, fmt.Errorf("max spins %d: %w", cfg.MaxSpins, flake.ErrMaxSpinsInvalid)
	}
	if err = flake.CheckOffset(cfg.Clock, cfg.OffsetMS); err != nil {
		return nil, err
	}
	if cfg.MachineID > layout.MaxMachineID() {
		return nil, fmt.Errorf(
			"machine id %d does not fit %d bits (max %d): %w",
			cfg.MachineID, layout.MachineBits(), layout.MaxMachineID(), flake.ErrMachineIDRange)
	}

	g := &Generator{
		layout:        layout,
		offsetMS:      cfg.OffsetMS,
		machineID:     cfg.MachineID,
		wait:          cfg.WaitOnExhaustion,
		maxSpins:      cfg.MaxSpins,
		clock:         cfg.Clock,
		obs:           cfg.Observer,
		log:           cfg.Log,
		lastTimestamp: -1,
	}
	if g.log != nil {
		g.log.Debugf(
			"snowflakeid: machine %d, layout %d/%d/%d (width %d), offset %d, wait %v",
			g.machineID, layout.TimestampBits(), layout.MachineBits(), layout.SequenceBits(),
			layout.Width(), g.offsetMS, g.wait)
	}
	return g, nil
}

func (g *Generator) Layout() Layout    { return g.layout }
func (g *Generator) MachineID() uint64 { return g.machineID }
func (g *Generator) OffsetMS() int64   { return g.offsetMS }

// NextID returns the next id as an int64. The generator must have a Signed
// layout.
//
// On flake.ErrExhausted the returned id is 0 and is not an identifier. The
// caller should back off briefly, with jitter to avoid thundering herds, and
// try again.
func (g *Generator) NextID() (int64, error) {
	if g.layout.width != Signed {
		return 0, fmt.Errorf("NextID on a %d bit layout, use NextUnsignedID: %w", g.layout.width, ErrWidth)
	}
	id, err := g.next()
	if err != nil {
		return 0, err
	}
	return int64(id), nil
}

// NextUnsignedID returns the next id as a uint64. It works for either width.
// Errors are as for NextID.
func (g *Generator) NextUnsignedID() (uint64, error) {
	return g.next()
}

func (g *Generator) next() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.overflowed {
		return 0, flake.ErrTimestampOverflow
	}

	now := flake.Tick(g.clock, g.offsetMS)
	if now < g.lastTimestamp {
		g.obs.ClockRegressed(g.lastTimestamp - now)
	}

	switch {
	case now > g.lastTimestamp:
		// The only place the sequence resets.
		g.lastTimestamp = now
		g.sequence = 0

	case g.sequence < g.layout.MaxSequence():
		// now is equal to *or behind* the last tick. Behind is treated exactly
		// like equal, we never move lastTimestamp backwards.
		g.sequence++

	default:
		// The sequence is exhausted for this tick. It stays saturated, so
		// further calls in the same tick keep reporting exhaustion rather than
		// wrapping and re-issuing ids.
		if !g.wait {
			g.obs.Exhausted()
			return 0, flake.ErrExhausted
		}
		next, spins, err := flake.WaitTick(g.clock, g.offsetMS, g.lastTimestamp, g.maxSpins)
		if err != nil {
			g.obs.Exhausted()
			if g.log != nil {
				g.log.Infof("snowflakeid: machine %d: %v", g.machineID, err)
			}
			return 0, err
		}
		g.obs.Waited(spins)
		g.lastTimestamp = next
		g.sequence = 0
	}

	if g.layout.overflows(g.lastTimestamp) {
		g.overflowed = true
		g.obs.Overflowed()
		if g.log != nil {
			g.log.Infof(
				"snowflakeid: machine %d: tick %d does not fit %d timestamp bits, generator disabled",
				g.machineID, g.lastTimestamp, g.layout.TimestampBits())
		}
		return 0, fmt.Errorf("tick %d, max %d: %w", g.lastTimestamp, g.layout.MaxTimestamp(), flake.ErrTimestampOverflow)
	}

	g.obs.Issued()
	return g.layout.encode(g.lastTimestamp, g.machineID, g.sequence), nil
}
