package idmetrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forestrie/go-flakeid/flake"
	"github.com/forestrie/go-flakeid/idtesting"
	"github.com/forestrie/go-flakeid/snowflakeid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ flake.Observer = (*Observer)(nil)

func TestObserver_generatorEvents(t *testing.T) {
	clock := idtesting.NewScriptedClock(100, 100, 100, 100, 90)
	obs := NewObserver("test")
	g, err := snowflakeid.NewGenerator(snowflakeid.Config{
		Bits:     snowflakeid.BitWidths{Timestamp: 41, Machine: 21, Sequence: 1},
		Clock:    clock,
		Observer: obs,
	})
	require.NoError(t, err)

	// two ids fill the tick, the third call finds it exhausted
	_, err = g.NextID()
	require.NoError(t, err)
	_, err = g.NextID()
	require.NoError(t, err)
	_, err = g.NextID()
	require.ErrorIs(t, err, flake.ErrExhausted)

	// the clock falls 10ms behind, still exhausted
	_, err = g.NextID()
	require.ErrorIs(t, err, flake.ErrExhausted)

	assert.Equal(t, 2.0, testutil.ToFloat64(obs.issued))
	assert.Equal(t, 2.0, testutil.ToFloat64(obs.exhausted))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.regressions))
	assert.Equal(t, 10.0, testutil.ToFloat64(obs.regressedMS))
	assert.Equal(t, 0.0, testutil.ToFloat64(obs.overflows))
}

func TestObserver_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewObserver("a")
	require.NoError(t, a.Register(reg))
	require.NoError(t, NewObserver("b").Register(reg), "distinct generators share metric names")
	assert.Error(t, NewObserver("a").Register(reg))

	a.Issued()
	a.Issued()
	a.Waited(3)
	a.Overflowed()

	totals, err := Totals(reg)
	require.NoError(t, err)
	assert.Equal(t, 2.0, totals["forestrie_flakeid_ids_issued_total"])
	assert.Equal(t, 1.0, totals["forestrie_flakeid_wait_spins"])
	assert.Equal(t, 1.0, totals["forestrie_flakeid_timestamp_overflows_total"])
	assert.Equal(t, 0.0, totals["forestrie_flakeid_exhausted_total"])
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewObserver("http")
	require.NoError(t, obs.Register(reg))
	obs.Issued()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `forestrie_flakeid_ids_issued_total{generator="http"} 1`)
}
