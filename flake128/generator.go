package flake128

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-flakeid/flake"
)

const (
	// exhaustedPayload is the counter value at which a tick is used up:
	// payload + 1 == MaxUint64.
	exhaustedPayload = math.MaxUint64 - 1

	// maxDraws bounds the redraws of zero or exhausted payloads. A healthy
	// source essentially never needs a second draw.
	maxDraws = 8
)

type Config struct {
	// MachineID must be unique amongst generators whose ids can meet, and at
	// most MaxMachineID.
	MachineID uint64

	// OffsetMS is the unix millisecond time subtracted from the clock. It may
	// not be in the future. DefaultConfig sets flake.DefaultOffsetMS.
	OffsetMS int64

	// WaitOnExhaustion makes NextID spin until the next tick rather than
	// returning flake.ErrExhausted.
	WaitOnExhaustion bool

	// MaxSpins bounds the wait. Zero selects flake.DefaultMaxSpins.
	MaxSpins int

	// Clock defaults to flake.SystemClock
	Clock flake.Clock

	// Entropy defaults to flake.DefaultEntropy. It must be safe for concurrent
	// use if it is shared between generators.
	Entropy io.Reader

	Observer flake.Observer
	Log      logger.Logger
}

func DefaultConfig(machineID uint64) Config {
	return Config{
		MachineID: machineID,
		OffsetMS:  flake.DefaultOffsetMS,
	}
}

// Generator issues 128 bit ids for one machine id. It is safe for concurrent
// use.
type Generator struct {
	offsetMS  int64
	machineID uint64
	wait      bool
	maxSpins  int

	clock   flake.Clock
	entropy io.Reader
	obs     flake.Observer
	log     logger.Logger

	// mu guards the state below, including during waits
	mu            sync.Mutex
	lastTimestamp int64
	payload       uint64
	overflowed    bool
}

func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Clock == nil {
		cfg.Clock = flake.SystemClock{}
	}
	if cfg.Entropy == nil {
		cfg.Entropy = flake.DefaultEntropy
	}
	if cfg.Observer == nil {
		cfg.Observer = flake.NopObserver{}
	}
	if cfg.MaxSpins == 0 {
		cfg.MaxSpins = flake.DefaultMaxSpins
	}
	if cfg.MaxSpins < 0 {
		return nil, fmt.Errorf("max spins %d: %w", cfg.MaxSpins, flake.ErrMaxSpinsInvalid)
	}
	if err := flake.CheckOffset(cfg.Clock, cfg.OffsetMS); err != nil {
		return nil, err
	}
	if cfg.MachineID > MaxMachineID {
		return nil, fmt.Errorf("machine id %d > %d: %w", cfg.MachineID, MaxMachineID, flake.ErrMachineIDRange)
	}

	g := &Generator{
		offsetMS:      cfg.OffsetMS,
		machineID:     cfg.MachineID,
		wait:          cfg.WaitOnExhaustion,
		maxSpins:      cfg.MaxSpins,
		clock:         cfg.Clock,
		entropy:       cfg.Entropy,
		obs:           cfg.Observer,
		log:           cfg.Log,
		lastTimestamp: -1,
	}
	if g.log != nil {
		g.log.Debugf("flake128: machine %d, offset %d, wait %v", g.machineID, g.offsetMS, g.wait)
	}
	return g, nil
}

func (g *Generator) MachineID() uint64 { return g.machineID }
func (g *Generator) OffsetMS() int64   { return g.offsetMS }

// NextID returns the next id.
//
// On flake.ErrExhausted the zero ID is returned and there is no id for this
// call. The caller should back off briefly and retry. Entropy failures wrap
// flake.ErrEntropy and leave the generator unchanged.
func (g *Generator) NextID() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.overflowed {
		return ID{}, flake.ErrTimestampOverflow
	}

	now := flake.Tick(g.clock, g.offsetMS)
	if now < g.lastTimestamp {
		g.obs.ClockRegressed(g.lastTimestamp - now)
	}

	switch {
	case now > g.lastTimestamp:
		payload, err := g.draw()
		if err != nil {
			return ID{}, err
		}
		g.lastTimestamp = now
		g.payload = payload

	case g.payload < exhaustedPayload:
		// Same tick, or the clock went backwards. The payload is a counter
		// from its random start.
		g.payload++

	default:
		if !g.wait {
			g.obs.Exhausted()
			return ID{}, flake.ErrExhausted
		}
		next, spins, err := flake.WaitTick(g.clock, g.offsetMS, g.lastTimestamp, g.maxSpins)
		if err != nil {
			g.obs.Exhausted()
			if g.log != nil {
				g.log.Infof("flake128: machine %d: %v", g.machineID, err)
			}
			return ID{}, err
		}
		payload, err := g.draw()
		if err != nil {
			return ID{}, err
		}
		g.obs.Waited(spins)
		g.lastTimestamp = next
		g.payload = payload
	}

	if g.lastTimestamp > MaxTimestamp {
		g.overflowed = true
		g.obs.Overflowed()
		if g.log != nil {
			g.log.Infof("flake128: machine %d: tick %d exceeds 48 bits, generator disabled", g.machineID, g.lastTimestamp)
		}
		return ID{}, fmt.Errorf("tick %d, max %d: %w", g.lastTimestamp, int64(MaxTimestamp), flake.ErrTimestampOverflow)
	}

	g.obs.Issued()
	return newID(g.lastTimestamp, g.machineID, g.payload), nil
}

// draw returns a fresh payload that is non zero and not already exhausted.
func (g *Generator) draw() (uint64, error) {
	for i := 0; i < maxDraws; i++ {
		v, err := flake.ReadUint64(g.entropy)
		if err != nil {
			return 0, err
		}
		if v != 0 && v < exhaustedPayload {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%d draws were all zero or exhausted: %w", maxDraws, flake.ErrEntropy)
}
