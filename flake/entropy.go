package flake

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// DefaultEntropy is the cryptographically strong source used when a generator
// is not given one.
var DefaultEntropy io.Reader = rand.Reader

// ReadUint64 reads 8 bytes from r and returns them as a big endian uint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("reading 8 bytes: %v: %w", err, ErrEntropy)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}
