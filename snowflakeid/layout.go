package snowflakeid

import (
	"errors"
	"fmt"

	"github.com/forestrie/go-flakeid/flake"
)

var (
	ErrWidth         = fmt.Errorf("%w: the identifier width must be 63 or 64", flake.ErrConfig)
	ErrBitWidthSum   = fmt.Errorf("%w: the field widths must sum to the identifier width", flake.ErrConfig)
	ErrTimestampBits = fmt.Errorf("%w: the timestamp field needs at least one bit", flake.ErrConfig)

	ErrPartRange = errors.New("an id field does not fit the layout")
)

// Layout is a validated bit layout. Only the width and the two shifts are
// kept, the field widths and masks are recovered from them.
type Layout struct {
	width          Width
	timestampShift uint8
	machineShift   uint8
}

// Parts are the decoded fields of an id.
type Parts struct {
	Timestamp int64  `json:"timestamp" cbor:"1,keyasint"`
	MachineID uint64 `json:"machine_id" cbor:"2,keyasint"`
	Sequence  uint64 `json:"sequence" cbor:"3,keyasint"`
}

// Layout validates the widths against the identifier width and derives the
// encoding shifts.
func (b BitWidths) Layout(width Width) (Layout, error) {
	if width != Signed && width != Unsigned {
		return Layout{}, fmt.Errorf("width %d: %w", width, ErrWidth)
	}
	if b.Timestamp == 0 {
		return Layout{}, ErrTimestampBits
	}
	// uint8 addition can wrap, so sum in int
	sum := int(b.Timestamp) + int(b.Machine) + int(b.Sequence)
	if sum != int(width) {
		return Layout{}, fmt.Errorf(
			"timestamp %d + machine %d + sequence %d = %d, not %d: %w",
			b.Timestamp, b.Machine, b.Sequence, sum, width, ErrBitWidthSum)
	}
	timestampShift := uint8(width) - b.Timestamp
	return Layout{
		width:          width,
		timestampShift: timestampShift,
		machineShift:   timestampShift - b.Machine,
	}, nil
}

func (l Layout) Width() Width          { return l.width }
func (l Layout) TimestampShift() uint8 { return l.timestampShift }
func (l Layout) MachineShift() uint8   { return l.machineShift }

func (l Layout) TimestampBits() uint8 { return uint8(l.width) - l.timestampShift }
func (l Layout) MachineBits() uint8   { return l.timestampShift - l.machineShift }
func (l Layout) SequenceBits() uint8  { return l.machineShift }

// BitWidths returns the field widths the layout was derived from.
func (l Layout) BitWidths() BitWidths {
	return BitWidths{Timestamp: l.TimestampBits(), Machine: l.MachineBits(), Sequence: l.SequenceBits()}
}

// MaxMachineID is 2^machineBits - 1
func (l Layout) MaxMachineID() uint64 { return uint64(1)<<l.MachineBits() - 1 }

// MaxSequence is 2^sequenceBits - 1
func (l Layout) MaxSequence() uint64 { return uint64(1)<<l.SequenceBits() - 1 }

// MaxTimestamp is the largest tick the layout can represent.
func (l Layout) MaxTimestamp() uint64 { return uint64(1)<<l.TimestampBits() - 1 }

// overflows is true if tick can not be represented in the timestamp field.
// Ticks are non negative int64's so a 63 or 64 bit field never overflows.
func (l Layout) overflows(tick int64) bool {
	if l.TimestampBits() >= 63 {
		return false
	}
	return tick >= int64(1)<<l.TimestampBits()
}

// encode assumes the fields are in range.
func (l Layout) encode(tick int64, machineID, sequence uint64) uint64 {
	return uint64(tick)<<l.timestampShift | machineID<<l.machineShift | sequence
}

// Compose encodes parts, checking each field fits.
func (l Layout) Compose(p Parts) (uint64, error) {
	if p.Timestamp < 0 || uint64(p.Timestamp) > l.MaxTimestamp() {
		return 0, fmt.Errorf("timestamp %d > %d: %w", p.Timestamp, l.MaxTimestamp(), ErrPartRange)
	}
	if p.MachineID > l.MaxMachineID() {
		return 0, fmt.Errorf("machine id %d > %d: %w", p.MachineID, l.MaxMachineID(), ErrPartRange)
	}
	if p.Sequence > l.MaxSequence() {
		return 0, fmt.Errorf("sequence %d > %d: %w", p.Sequence, l.MaxSequence(), ErrPartRange)
	}
	return l.encode(p.Timestamp, p.MachineID, p.Sequence), nil
}

// Split decodes id without loss.
func (l Layout) Split(id uint64) Parts {
	return Parts{
		Timestamp: int64(id >> l.timestampShift & l.MaxTimestamp()),
		MachineID: id >> l.machineShift & l.MaxMachineID(),
		Sequence:  id & l.MaxSequence(),
	}
}
