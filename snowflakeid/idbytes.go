package snowflakeid

// Ids leave the process as 8 big endian bytes, or as those bytes in hex. Byte
// wise order of the encoded form is id order.

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIDBytesLength = errors.New("an encoded id is exactly 8 bytes")
)

// IDBytes returns id as 8 big endian bytes.
func IDBytes(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

// IDHex returns the 16 character hex encoding of IDBytes.
func IDHex(id uint64) string {
	return hex.EncodeToString(IDBytes(id))
}

// SplitIDBytes accepts the output of IDBytes.
func SplitIDBytes(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%d bytes: %w", len(b), ErrIDBytesLength)
	}
	return binary.BigEndian.Uint64(b), nil
}

// ParseIDHex accepts the output of IDHex, optionally with a 0x prefix.
func ParseIDHex(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")

	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, err
	}
	return SplitIDBytes(b)
}
