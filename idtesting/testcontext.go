package idtesting

import (
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-flakeid/flake"
)

// TestContext bundles the collaborators most generator tests need.
type TestContext struct {
	Log   logger.Logger
	Clock *ManualClock
	T     *testing.T
}

type TestConfig struct {
	// StartTimeMS is the initial reading of the manual clock. It is normal to
	// force it to some fixed value so that ids are the same from run to run.
	StartTimeMS     int64
	TestLabelPrefix string
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T:     t,
		Clock: NewManualClock(cfg.StartTimeMS),
	}
	logger.New("NOOP")
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)
	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// GetClock returns the manual clock as a flake.Clock
func (c *TestContext) GetClock() flake.Clock { return c.Clock }

// RecordingObserver counts generator events. It is not safe for concurrent
// use beyond what the generator lock provides.
type RecordingObserver struct {
	IssuedCount    int
	ExhaustedCount int
	Regressions    []int64
	Spins          []int
	OverflowCount  int
}

func (o *RecordingObserver) Issued()                     { o.IssuedCount++ }
func (o *RecordingObserver) Exhausted()                  { o.ExhaustedCount++ }
func (o *RecordingObserver) ClockRegressed(behind int64) { o.Regressions = append(o.Regressions, behind) }
func (o *RecordingObserver) Waited(spins int)            { o.Spins = append(o.Spins, spins) }
func (o *RecordingObserver) Overflowed()                 { o.OverflowCount++ }
