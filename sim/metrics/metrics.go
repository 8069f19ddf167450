// Package metrics exposes the state of a running simulation as Prometheus
// metrics. A Collector is updated by the engine after every event.
package metrics

import (
	"io"

	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "resilience_sim"

// Collector holds the run metrics.
type Collector struct {
	DownSRGs            prometheus.Gauge
	Routes              prometheus.Gauge
	Segments            prometheus.Gauge
	CarriedTraffic      prometheus.Gauge
	BlockedTraffic      prometheus.Gauge
	OversubscribedLinks prometheus.Gauge
	SimulationTime      prometheus.Gauge

	EventsTotal         *prometheus.CounterVec
	ActionsTotal        *prometheus.CounterVec
	InvalidActionsTotal prometheus.Counter
}

// NewCollector creates the run metrics and registers them with reg. A nil
// reg creates unregistered metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	return &Collector{
		DownSRGs:            gauge("down_srgs", "Number of SRGs currently failed"),
		Routes:              gauge("routes", "Number of live routes"),
		Segments:            gauge("segments", "Number of live protection segments"),
		CarriedTraffic:      gauge("carried_traffic", "Total traffic carried by all routes"),
		BlockedTraffic:      gauge("blocked_traffic", "Offered traffic not carried by any route"),
		OversubscribedLinks: gauge("oversubscribed_links", "Links whose occupied capacity exceeds their capacity"),
		SimulationTime:      gauge("simulation_time_hours", "Time of the last processed event"),

		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Processed events by type",
		}, []string{"type"}),
		ActionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Applied provisioning actions by kind",
		}, []string{"kind"}),
		InvalidActionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_actions_total",
			Help:      "Provisioning actions rejected by the state",
		}),
	}
}

// Observe refreshes the gauges from state.
func (c *Collector) Observe(state sim.Reader) {
	carried := state.TotalCarriedTraffic()
	c.DownSRGs.Set(float64(len(state.DownSRGs())))
	c.Routes.Set(float64(state.NumRoutes()))
	c.Segments.Set(float64(state.NumSegments()))
	c.CarriedTraffic.Set(carried)
	c.BlockedTraffic.Set(max(0, state.TotalOfferedTraffic()-carried))
	c.OversubscribedLinks.Set(float64(len(state.OversubscribedLinks())))
}

// RecordEvent counts a processed event.
func (c *Collector) RecordEvent(ev sim.Event) {
	c.EventsTotal.WithLabelValues(string(ev.Type)).Inc()
	c.SimulationTime.Set(ev.Time)
}

// RecordAction counts an applied action.
func (c *Collector) RecordAction(a sim.Action) {
	c.ActionsTotal.WithLabelValues(string(a.Kind())).Inc()
}

// RecordInvalidActions counts n rejected actions.
func (c *Collector) RecordInvalidActions(n int) {
	c.InvalidActionsTotal.Add(float64(n))
}

// WriteText writes every metric gathered by g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
