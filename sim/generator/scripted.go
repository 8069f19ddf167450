package generator

import (
	"fmt"
	"slices"

	"github.com/netplan-sim/resilience-sim/sim"
)

// Scripted replays a fixed timeline. It validates every event against the
// plan on Initialize and never schedules follow-ups.
type Scripted struct {
	events        []sim.Event
	allowElements bool
}

// NewScripted creates a scripted generator over events. The slice is copied.
func NewScripted(events []sim.Event, allowElementEvents bool) *Scripted {
	return &Scripted{events: slices.Clone(events), allowElements: allowElementEvents}
}

// Initialize returns the timeline ordered by time; events at the same time
// keep their scripted order.
func (g *Scripted) Initialize(plan *sim.NetPlan, _ sim.Reader) ([]sim.Event, error) {
	for i, ev := range g.events {
		if err := ev.Validate(plan); err != nil {
			return nil, fmt.Errorf("scripted event %d: %w", i, err)
		}
		if ev.Time < 0 {
			return nil, fmt.Errorf("scripted event %d: negative time %f", i, ev.Time)
		}
		if !ev.Type.IsSRG() && !g.allowElements {
			return nil, fmt.Errorf("scripted event %d: %s is an element event; set allow_element_events to use it", i, ev.Type)
		}
	}
	out := slices.Clone(g.events)
	slices.SortStableFunc(out, func(a, b sim.Event) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return out, nil
}

// ProcessEvent schedules nothing.
func (g *Scripted) ProcessEvent(*sim.NetPlan, sim.Reader, sim.Event) ([]sim.Event, error) {
	return nil, nil
}
