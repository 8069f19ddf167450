package engine

import (
	"encoding/json"
	"io"

	"github.com/netplan-sim/resilience-sim/sim"
)

// Summary is the outcome of a run.
type Summary struct {
	RunID           string         `json:"run_id"`
	HorizonHours    float64        `json:"horizon_hours"`
	EndTime         float64        `json:"end_time_hours"`
	EventsProcessed int            `json:"events_processed"`
	EventsByType    map[string]int `json:"events_by_type"`
	ActionsApplied  int            `json:"actions_applied"`
	ActionsInvalid  int            `json:"actions_invalid"`

	// Availability is the time-weighted ratio of carried to offered traffic
	// over [0, EndTime]; 1 when nothing is offered.
	Availability        float64 `json:"availability"`
	CarriedTraffic      float64 `json:"carried_traffic"`
	OfferedTraffic      float64 `json:"offered_traffic"`
	MaxBlockedTraffic   float64 `json:"max_blocked_traffic"`
	OversubscribedLinks []int   `json:"oversubscribed_links"`
	DownSRGs            []int   `json:"down_srgs"`
	Routes              int     `json:"routes"`
	Segments            int     `json:"segments"`

	// Algorithm is the report returned by the provisioning algorithm.
	Algorithm map[string]string `json:"algorithm,omitempty"`
}

// WriteJSON writes the summary as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// accumulator integrates carried and offered traffic over simulated time
// and counts what each step did.
type accumulator struct {
	last         float64
	carriedArea  float64
	offeredArea  float64
	events       int
	eventsByType map[string]int
	applied      int
	invalid      int
	maxBlocked   float64
}

func newAccumulator() accumulator {
	return accumulator{eventsByType: make(map[string]int)}
}

// advance integrates the traffic of state from the last instant up to t.
func (a *accumulator) advance(t float64, state sim.Reader) {
	if t <= a.last {
		return
	}
	dt := t - a.last
	a.carriedArea += dt * state.TotalCarriedTraffic()
	a.offeredArea += dt * state.TotalOfferedTraffic()
	a.last = t
}

func (a *accumulator) record(ev sim.Event, applied, invalid int) {
	a.events++
	a.eventsByType[string(ev.Type)]++
	a.applied += applied
	a.invalid += invalid
}

func (a *accumulator) availability() float64 {
	if a.offeredArea == 0 {
		return 1
	}
	return a.carriedArea / a.offeredArea
}

func (e *Engine) summarize(state sim.Reader, end float64) *Summary {
	oversubscribed := state.OversubscribedLinks()
	if oversubscribed == nil {
		oversubscribed = []int{}
	}
	downSRGs := state.DownSRGs()
	if downSRGs == nil {
		downSRGs = []int{}
	}
	return &Summary{
		RunID:               e.runID,
		HorizonHours:        e.cfg.HorizonHours,
		EndTime:             end,
		EventsProcessed:     e.acc.events,
		EventsByType:        e.acc.eventsByType,
		ActionsApplied:      e.acc.applied,
		ActionsInvalid:      e.acc.invalid,
		Availability:        e.acc.availability(),
		CarriedTraffic:      state.TotalCarriedTraffic(),
		OfferedTraffic:      state.TotalOfferedTraffic(),
		MaxBlockedTraffic:   e.acc.maxBlocked,
		OversubscribedLinks: oversubscribed,
		DownSRGs:            downSRGs,
		Routes:              state.NumRoutes(),
		Segments:            state.NumSegments(),
		Algorithm:           e.alg.Finish(state),
	}
}
