package idtesting

import (
	"encoding/binary"
	"errors"
	"sync"
)

var ErrEntropyDrained = errors.New("test entropy source failure")

// SequenceEntropy yields each value as 8 big endian bytes, in order, and then
// repeats the last value. Reads are expected in multiples of 8 bytes.
type SequenceEntropy struct {
	mu     sync.Mutex
	values []uint64
	next   int
	Draws  int
}

func NewSequenceEntropy(values ...uint64) *SequenceEntropy {
	return &SequenceEntropy{values: values}
}

func (e *SequenceEntropy) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for len(p)-n >= 8 {
		v := e.values[len(e.values)-1]
		if e.next < len(e.values) {
			v = e.values[e.next]
			e.next++
		}
		binary.BigEndian.PutUint64(p[n:], v)
		n += 8
		e.Draws++
	}
	return n, nil
}

// FailingEntropy always fails.
type FailingEntropy struct{}

func (FailingEntropy) Read([]byte) (int, error) { return 0, ErrEntropyDrained }
