package machineid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"net"
)

var (
	ErrBadWorkerCIDR = errors.New("provided worker CIDR is invalid")
	ErrBadPodIP      = errors.New("pod ip invalid")
	ErrMaskRange     = errors.New("the specified CIDR mask allows for to many or too few private ip addresses")
	ErrTooWide       = errors.New("the machine id needs more bits than the layout provides")
)

const (
	// MaxIPBits is the most host bits a worker CIDR may leave, the machine id
	// is taken from the low 16 bits of the pod ip.
	MaxIPBits = 16
)

// FromPrivateIP derives a machine id from the host part of a pod's private ip
// address. workerCIDR selects how many low order bits of the address are
// used: a /22 uses 10 bits. Returns the id and the number of bits it needs.
//
// This guarantees distinct ids for all pods allocated from the same subnet,
// provided the subnet is no larger than the CIDR.
func FromPrivateIP(workerCIDR, podIP string) (uint64, uint8, error) {
	mask, err := parseMask(workerCIDR)
	if err != nil {
		return 0, 0, err
	}
	ip, err := parseIP(podIP)
	if err != nil {
		return 0, 0, err
	}

	idBits := bits.Len16(binary.BigEndian.Uint16(mask[2:]))
	masked := ip.Mask(mask)
	id := binary.BigEndian.Uint16(masked[2:])

	return uint64(id), uint8(idBits), nil
}

// FromPrivateIPFor is FromPrivateIP, checking that the id fits machineBits.
func FromPrivateIPFor(workerCIDR, podIP string, machineBits uint8) (uint64, error) {
	id, idBits, err := FromPrivateIP(workerCIDR, podIP)
	if err != nil {
		return 0, err
	}
	if idBits > machineBits {
		return 0, fmt.Errorf("%s needs %d bits, have %d: %w", workerCIDR, idBits, machineBits, ErrTooWide)
	}
	return id, nil
}

// parseMask parses the CIDR mask which configures how many bits to take from
// the pod private ip address. It errors if the configuration exceeds what a
// machine id field can hold. The returned mask is inverted, selecting the
// host part.
func parseMask(workerCIDR string) (net.IPMask, error) {
	_, ipNet, err := net.ParseCIDR(workerCIDR)
	if err != nil {
		return nil, fmt.Errorf("%s - issue parsing CIDR: %v: %w", workerCIDR, err, ErrBadWorkerCIDR)
	}
	if len(ipNet.Mask) != net.IPv4len {
		return nil, fmt.Errorf("%s - not an ipv4 CIDR: %w", workerCIDR, ErrBadWorkerCIDR)
	}

	mask := invertIPMask(ipNet.Mask)
	if mask[0] != 0 || mask[1] != 0 {
		return nil, fmt.Errorf("%s - allows to many ips: %w", workerCIDR, ErrMaskRange)
	}
	if mask[2] == 0 && mask[3] == 0 {
		return nil, fmt.Errorf("%s - allows to few ips: %w", workerCIDR, ErrMaskRange)
	}
	return mask, nil
}

// invertIPMask inverts the mask in place and also returns it
func invertIPMask(mask net.IPMask) net.IPMask {
	for i := range mask {
		mask[i] = ^mask[i]
	}
	return mask
}

// parseIP parses a pod ip address and requires that it is allocated from a
// known private ip range.
func parseIP(podIP string) (net.IP, error) {
	ip := net.ParseIP(podIP)
	if ip == nil {
		return nil, fmt.Errorf("%s - issue parsing IP: %w", podIP, ErrBadPodIP)
	}
	ip = ip.To4()
	if ip == nil {
		return nil, fmt.Errorf("%s - not an ipv4 address: %w", podIP, ErrBadPodIP)
	}
	if !ip.IsPrivate() {
		return nil, fmt.Errorf("%s - is not a private ip: %w", podIP, ErrBadPodIP)
	}
	return ip, nil
}
