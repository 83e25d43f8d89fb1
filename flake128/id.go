package flake128

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

const (
	TimestampBits = 48
	MachineBits   = 16
	PayloadBits   = 64

	MaxMachineID = 1<<MachineBits - 1
	MaxTimestamp = 1<<TimestampBits - 1

	Size = 16
)

var ErrIDLength = errors.New("an id is exactly 16 bytes")

// ID is a 128 bit identifier. The zero ID is never issued by a Generator.
type ID [Size]byte

func newID(tick int64, machineID uint64, payload uint64) ID {
	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(tick)<<MachineBits|machineID)
	binary.BigEndian.PutUint64(id[8:16], payload)
	return id
}

// FromBytes copies a 16 byte slice into an ID.
func FromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != Size {
		return id, fmt.Errorf("%d bytes: %w", len(b), ErrIDLength)
	}
	copy(id[:], b)
	return id, nil
}

// Parse accepts the forms String produces as well as 32 hex digits, braced
// and urn:uuid: forms.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID(u), nil
}

// Timestamp is the tick, milliseconds since the generator offset.
func (id ID) Timestamp() int64 {
	return int64(binary.BigEndian.Uint64(id[0:8]) >> MachineBits)
}

func (id ID) MachineID() uint16 {
	return binary.BigEndian.Uint16(id[6:8])
}

func (id ID) Payload() uint64 {
	return binary.BigEndian.Uint64(id[8:16])
}

// Time returns the timestamp as a UTC time given the generator offset.
func (id ID) Time(offsetMS int64) time.Time {
	return time.UnixMilli(id.Timestamp() + offsetMS).UTC()
}

func (id ID) IsZero() bool { return id == ID{} }

// Bytes returns a copy of the 16 byte representation.
func (id ID) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// String returns the canonical 8-4-4-4-12 hex form. Note that ids are not
// RFC 4122 uuids, the version and variant bits are not set.
func (id ID) String() string { return uuid.UUID(id).String() }

// Compare returns -1, 0, 1 based on byte wise comparison.
func (id ID) Compare(other ID) int { return bytes.Compare(id[:], other[:]) }

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ID) MarshalBinary() ([]byte, error) { return id.Bytes(), nil }

func (id *ID) UnmarshalBinary(b []byte) error {
	parsed, err := FromBytes(b)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalCBOR encodes the id as a 16 byte CBOR byte string.
func (id ID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(id[:])
}

func (id *ID) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	parsed, err := FromBytes(b)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
