// Package idmetrics exports generator events as prometheus metrics.
package idmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	defaultNameSpace = "forestrie"
	defaultSubsystem = "flakeid"
)

// Observer implements flake.Observer. One Observer may be shared by any number
// of generators, the metrics are labeled by generator name only.
type Observer struct {
	issued      prometheus.Counter
	exhausted   prometheus.Counter
	regressions prometheus.Counter
	regressedMS prometheus.Counter
	overflows   prometheus.Counter
	spins       prometheus.Histogram
}

// NewObserver creates the metrics for the named generator. Nothing is
// registered until Register is called.
func NewObserver(generator string) *Observer {
	labels := prometheus.Labels{"generator": generator}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   defaultNameSpace,
			Subsystem:   defaultSubsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	spins := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   defaultNameSpace,
		Subsystem:   defaultSubsystem,
		Name:        "wait_spins",
		Help:        "Clock reads taken to reach the next tick after exhaustion.",
		ConstLabels: labels,
		Buckets:     prometheus.ExponentialBuckets(1, 4, 11),
	})
	return &Observer{
		issued:      counter("ids_issued_total", "Identifiers returned to callers."),
		exhausted:   counter("exhausted_total", "Calls that found the current tick exhausted."),
		regressions: counter("clock_regressions_total", "Clock readings behind the last issued tick."),
		regressedMS: counter("clock_regression_ms_total", "Sum of clock regressions in milliseconds."),
		overflows:   counter("timestamp_overflows_total", "Generators disabled by timestamp overflow."),
		spins:       spins,
	}
}

func (o *Observer) Issued()          { o.issued.Inc() }
func (o *Observer) Exhausted()       { o.exhausted.Inc() }
func (o *Observer) Waited(spins int) { o.spins.Observe(float64(spins)) }
func (o *Observer) Overflowed()      { o.overflows.Inc() }

func (o *Observer) ClockRegressed(behind int64) {
	o.regressions.Inc()
	o.regressedMS.Add(float64(behind))
}

func (o *Observer) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		o.issued, o.exhausted, o.regressions, o.regressedMS, o.overflows, o.spins,
	}
}

// Register registers all the observer's metrics with reg. Use
// prometheus.DefaultRegisterer for the process wide registry.
func (o *Observer) Register(reg prometheus.Registerer) error {
	for _, c := range o.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the metrics gathered from g in the prometheus exposition
// format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Totals returns the value of every counter, and the sample count of every
// histogram, gathered from g keyed by metric name. Series that differ only by
// label are summed.
func Totals(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	totals := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				totals[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				totals[mf.GetName()] += float64(m.GetHistogram().GetSampleCount())
			case m.GetGauge() != nil:
				totals[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}
	return totals, nil
}
