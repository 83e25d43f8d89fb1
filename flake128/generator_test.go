package flake128

import (
	"errors"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/forestrie/go-flakeid/flake"
	"github.com/forestrie/go-flakeid/idtesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	g, err := NewGenerator(cfg)
	require.NoError(t, err)
	return g
}

func TestNewGenerator(t *testing.T) {
	clock := idtesting.NewManualClock(1000)
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"zero config", Config{Clock: clock}, nil},
		{"max machine", Config{MachineID: MaxMachineID, Clock: clock}, nil},
		{"machine too large", Config{MachineID: MaxMachineID + 1, Clock: clock}, flake.ErrMachineIDRange},
		{"offset in future", Config{OffsetMS: 1001, Clock: clock}, flake.ErrOffsetInFuture},
		{"negative spins", Config{MaxSpins: -5, Clock: clock}, flake.ErrMaxSpinsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(tt.cfg)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, flake.ErrConfig)
			assert.Nil(t, g)
		})
	}
}

func TestNextID_layout(t *testing.T) {
	g := newTestGenerator(t, Config{
		MachineID: 0x0708,
		Clock:     idtesting.NewManualClock(0x010203040506),
		Entropy:   idtesting.NewSequenceEntropy(0x1112131415161718),
	})

	id, err := g.NextID()
	require.NoError(t, err)
	assert.Equal(t, ID{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18,
	}, id)
	assert.Equal(t, int64(0x010203040506), id.Timestamp())
	assert.Equal(t, uint16(0x0708), id.MachineID())
	assert.Equal(t, uint64(0x1112131415161718), id.Payload())
}

func TestNextID_sameTickCounts(t *testing.T) {
	tc := idtesting.NewTestContext(t, idtesting.TestConfig{
		StartTimeMS: flake.DefaultOffsetMS + 100, TestLabelPrefix: "TestNextID_sameTickCounts"})
	entropy := idtesting.NewSequenceEntropy(1000, 5000)
	cfg := DefaultConfig(9)
	cfg.Clock = tc.GetClock()
	cfg.Entropy = entropy
	cfg.Log = tc.GetLog()
	g := newTestGenerator(t, cfg)

	a, err := g.NextID()
	require.NoError(t, err)
	b, err := g.NextID()
	require.NoError(t, err)

	assert.Equal(t, int64(100), a.Timestamp())
	assert.Equal(t, a.Timestamp(), b.Timestamp())
	assert.Equal(t, a.MachineID(), b.MachineID())
	assert.Equal(t, uint64(1000), a.Payload())
	assert.Equal(t, uint64(1001), b.Payload())
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, entropy.Draws, "same tick ids must not redraw")

	tc.Clock.Advance(1)
	c, err := g.NextID()
	require.NoError(t, err)
	assert.Equal(t, int64(101), c.Timestamp())
	assert.Equal(t, uint64(5000), c.Payload())
	assert.Equal(t, 2, entropy.Draws)
}

func TestNextID_sameTickRealEntropy(t *testing.T) {
	g := newTestGenerator(t, Config{MachineID: 3, Clock: idtesting.NewManualClock(50)})

	a, err := g.NextID()
	require.NoError(t, err)
	b, err := g.NextID()
	require.NoError(t, err)

	assert.Len(t, a.Bytes(), Size)
	assert.Equal(t, a.Timestamp(), b.Timestamp())
	assert.Equal(t, a.MachineID(), b.MachineID())
	assert.NotEqual(t, a.Payload(), b.Payload())
	assert.False(t, a.IsZero())
}

func TestNextID_clockRegression(t *testing.T) {
	clock := idtesting.NewScriptedClock(0, 300, 250)
	obs := &idtesting.RecordingObserver{}
	g := newTestGenerator(t, Config{
		Clock:    clock,
		Entropy:  idtesting.NewSequenceEntropy(10),
		Observer: obs,
	})

	a, err := g.NextID()
	require.NoError(t, err)
	b, err := g.NextID()
	require.NoError(t, err)

	assert.Equal(t, int64(300), b.Timestamp())
	assert.Equal(t, uint64(11), b.Payload())
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, []int64{50}, obs.Regressions)
}

func TestNextID_redrawsZero(t *testing.T) {
	entropy := idtesting.NewSequenceEntropy(0, 0, math.MaxUint64, 7)
	g := newTestGenerator(t, Config{Clock: idtesting.NewManualClock(1), Entropy: entropy})

	id, err := g.NextID()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id.Payload())
	assert.Equal(t, 4, entropy.Draws)
}

func TestNextID_entropyFailure(t *testing.T) {
	for name, entropy := range map[string]io.Reader{
		"failing":   idtesting.FailingEntropy{},
		"all zeros": idtesting.NewSequenceEntropy(0),
	} {
		t.Run(name, func(t *testing.T) {
			g := newTestGenerator(t, Config{Clock: idtesting.NewManualClock(1), Entropy: entropy})
			id, err := g.NextID()
			require.ErrorIs(t, err, flake.ErrEntropy)
			assert.True(t, id.IsZero())
		})
	}
}

func TestNextID_exhaustionWithoutWait(t *testing.T) {
	obs := &idtesting.RecordingObserver{}
	g := newTestGenerator(t, Config{
		Clock:    idtesting.NewManualClock(1),
		Entropy:  idtesting.NewSequenceEntropy(math.MaxUint64 - 3),
		Observer: obs,
	})

	for _, want := range []uint64{math.MaxUint64 - 3, math.MaxUint64 - 2, math.MaxUint64 - 1} {
		id, err := g.NextID()
		require.NoError(t, err)
		assert.Equal(t, want, id.Payload())
	}

	id, err := g.NextID()
	require.ErrorIs(t, err, flake.ErrExhausted)
	assert.True(t, id.IsZero(), "exhaustion returns no value rather than a sentinel pattern")
	assert.Equal(t, 1, obs.ExhaustedCount)
}

func TestNextID_waitOnExhaustion(t *testing.T) {
	clock := idtesting.NewScriptedClock(100, 100, 100, 100, 101)
	obs := &idtesting.RecordingObserver{}
	g := newTestGenerator(t, Config{
		WaitOnExhaustion: true,
		Clock:            clock,
		Entropy:          idtesting.NewSequenceEntropy(math.MaxUint64-2, 42),
		Observer:         obs,
	})

	_, err := g.NextID()
	require.NoError(t, err)
	_, err = g.NextID()
	require.NoError(t, err)

	id, err := g.NextID()
	require.NoError(t, err)
	assert.Equal(t, int64(101), id.Timestamp())
	assert.Equal(t, uint64(42), id.Payload())
	assert.Equal(t, []int{1}, obs.Spins)
}

func TestNextID_waitGivesUp(t *testing.T) {
	g := newTestGenerator(t, Config{
		WaitOnExhaustion: true,
		MaxSpins:         3,
		Clock:            idtesting.NewManualClock(100),
		Entropy:          idtesting.NewSequenceEntropy(math.MaxUint64 - 2),
	})

	for i := 0; i < 2; i++ {
		_, err := g.NextID()
		require.NoError(t, err)
	}
	id, err := g.NextID()
	require.ErrorIs(t, err, flake.ErrExhausted)
	assert.True(t, id.IsZero())
}

func TestNextID_timestampOverflow(t *testing.T) {
	clock := idtesting.NewManualClock(MaxTimestamp)
	g := newTestGenerator(t, Config{Clock: clock})

	id, err := g.NextID()
	require.NoError(t, err)
	assert.Equal(t, int64(MaxTimestamp), id.Timestamp())

	clock.Advance(1)
	_, err = g.NextID()
	require.ErrorIs(t, err, flake.ErrTimestampOverflow)

	clock.Set(5)
	_, err = g.NextID()
	require.ErrorIs(t, err, flake.ErrTimestampOverflow)
}

func TestNextID_concurrentCallersUnique(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig(1))

	const workers = 8
	const perWorker = 2000

	results := make([][]ID, workers)
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			var last ID
			for i := 0; i < perWorker; i++ {
				id, err := g.NextID()
				if errors.Is(err, flake.ErrExhausted) {
					i--
					continue
				}
				if err != nil {
					return err
				}
				if id.Compare(last) <= 0 {
					return fmt.Errorf("worker %d: %s not after %s", w, id, last)
				}
				last = id
				results[w] = append(results[w], id)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	seen := map[ID]struct{}{}
	for _, ids := range results {
		for _, id := range ids {
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %s", id)
			seen[id] = struct{}{}
		}
	}
	assert.Len(t, seen, workers*perWorker)
}
