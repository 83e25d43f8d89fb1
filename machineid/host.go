package machineid

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/shirou/gopsutil/v4/host"
)

var ErrNoHostID = errors.New("the host did not report an id")

// HostIDFunc reads the host's stable identifier. It is a variable so tests can
// replace it.
var HostIDFunc = host.HostID

// FromHostID hashes the host's stable identifier into machineBits bits.
//
// Unlike FromPrivateIP this does not guarantee distinct ids, two hosts collide
// with probability 2^-machineBits. Use it only where machine ids can't be
// assigned.
func FromHostID(machineBits uint8) (uint64, error) {
	if machineBits > 64 {
		return 0, fmt.Errorf("%d machine bits: %w", machineBits, ErrTooWide)
	}
	hostID, err := HostIDFunc()
	if err != nil {
		return 0, fmt.Errorf("reading host id: %v: %w", err, ErrNoHostID)
	}
	if hostID == "" {
		return 0, ErrNoHostID
	}
	return Hash(hostID, machineBits), nil
}

// Hash reduces s to a machineBits wide id.
func Hash(s string, machineBits uint8) uint64 {
	return xxhash.Sum64String(s) & (uint64(1)<<machineBits - 1)
}
