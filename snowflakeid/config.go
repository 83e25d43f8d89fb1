package snowflakeid

import (
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-flakeid/flake"
)

// Width is the total number of bits in an identifier.
type Width uint8

const (
	// Signed ids use 63 bits so they are always positive as an int64.
	Signed Width = 63
	// Unsigned ids use all 64 bits.
	Unsigned Width = 64
)

const (
	DefaultTimestampBits = 41
	DefaultMachineBits   = 12
	DefaultSequenceBits  = 10
)

// BitWidths is the number of bits given to each field of an id.
type BitWidths struct {
	Timestamp uint8
	Machine   uint8
	Sequence  uint8
}

// DefaultBitWidths returns the 41/12/10 layout.
func DefaultBitWidths() BitWidths {
	return BitWidths{
		Timestamp: DefaultTimestampBits,
		Machine:   DefaultMachineBits,
		Sequence:  DefaultSequenceBits,
	}
}

func (b BitWidths) isZero() bool {
	return b.Timestamp == 0 && b.Machine == 0 && b.Sequence == 0
}

type Config struct {
	// Bits configures the field layout. The zero value selects
	// DefaultBitWidths.
	Bits BitWidths

	// Width is Signed or Unsigned. The zero value selects Signed.
	Width Width

	// OffsetMS is the unix millisecond time subtracted from the clock before
	// encoding. It may not be in the future. Note that the zero value is the
	// unix epoch, DefaultConfig sets flake.DefaultOffsetMS.
	OffsetMS int64

	// MachineID must be unique amongst all generators whose ids can meet. It
	// must fit in Bits.Machine bits.
	MachineID uint64

	// WaitOnExhaustion makes NextID spin until the next tick rather than
	// returning flake.ErrExhausted when the sequence for a tick is used up.
	WaitOnExhaustion bool

	// MaxSpins bounds the wait when WaitOnExhaustion is set. Zero selects
	// flake.DefaultMaxSpins. We do not support an unbounded wait.
	MaxSpins int

	// Clock defaults to flake.SystemClock
	Clock flake.Clock

	// Observer defaults to flake.NopObserver
	Observer flake.Observer

	// Log is optional
	Log logger.Logger
}

// DefaultConfig returns the default layout and offset for the given machine.
func DefaultConfig(machineID uint64) Config {
	return Config{
		Bits:      DefaultBitWidths(),
		Width:     Signed,
		OffsetMS:  flake.DefaultOffsetMS,
		MachineID: machineID,
	}
}

func (cfg Config) withDefaults() Config {
	if cfg.Bits.isZero() {
		cfg.Bits = DefaultBitWidths()
	}
	if cfg.Width == 0 {
		cfg.Width = Signed
	}
	if cfg.MaxSpins == 0 {
		cfg.MaxSpins = flake.DefaultMaxSpins
	}
	if cfg.Clock == nil {
		cfg.Clock = flake.SystemClock{}
	}
	if cfg.Observer == nil {
		cfg.Observer = flake.NopObserver{}
	}
	return cfg
}
