package flake

import (
	"errors"
	"fmt"
)

var (
	ErrConfig            = errors.New("invalid generator configuration")
	ErrExhausted         = errors.New("no identifier is available in the current tick")
	ErrTimestampOverflow = errors.New("the timestamp field can not represent the current tick")
	ErrEntropy           = errors.New("the entropy source failed")
)

// The specific configuration errors all wrap ErrConfig so callers can test for
// either.
var (
	ErrMachineIDRange  = fmt.Errorf("%w: machine id out of range", ErrConfig)
	ErrOffsetInFuture  = fmt.Errorf("%w: the custom offset is later than the current time", ErrConfig)
	ErrClockUnset      = fmt.Errorf("%w: a clock is required", ErrConfig)
	ErrMaxSpinsInvalid = fmt.Errorf("%w: max spins must not be negative", ErrConfig)
)
