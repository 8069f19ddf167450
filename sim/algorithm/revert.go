package algorithm

import (
	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/sirupsen/logrus"
)

// Revert acts only on reparation events: every reparable route goes back
// to its planned path and planned traffic. Routes off their planned path
// are only moved when their effective Revertive attribute is set.
type Revert struct {
	stats stats
}

// NewRevert creates a Revert algorithm.
func NewRevert() *Revert { return &Revert{} }

func (a *Revert) Initialize(*sim.NetPlan, sim.Reader) error { return nil }

func (a *Revert) ProcessEvent(_ *sim.NetPlan, state sim.Reader, ev sim.Event) ([]sim.Action, error) {
	if !ev.Type.IsReparation() {
		return nil, nil
	}
	eff, err := state.ReparationEffects(ev)
	if err != nil {
		return nil, err
	}
	return revertReparable(state, eff, nil, &a.stats), nil
}

func (a *Revert) Finish(sim.Reader) map[string]string { return a.stats.report() }

// revertReparable returns the actions putting degraded reparable routes
// back on their planned path. When spare is non-nil it is updated with the capacity
// each reverted route frees on its current path and takes on its planned one.
func revertReparable(state sim.Reader, eff sim.ReparationEffects, spare []float64, st *stats) []sim.Action {
	var actions []sim.Action
	for _, id := range eff.DegradedReparable() {
		r, ok := state.Route(id)
		if !ok {
			continue
		}
		attrs, err := state.EffectiveRouteAttributes(id)
		if err != nil {
			continue
		}
		if !r.IsOnPlannedPath() && !attrs.IsRevertive() {
			logrus.Debugf("route %d is not revertive, staying on %s", id, sim.FormatPath(r.CurrentPath()))
			continue
		}
		if spare != nil {
			if current, err := state.ExpandedCurrentPath(id); err == nil && !eff.Status.PathDown(state.Plan(), current) {
				consume(spare, releasedLinks(state, r.CurrentPath()), -r.CurrentTraffic())
			}
			consume(spare, r.PlannedPath(), r.PlannedTraffic())
		}
		actions = append(actions, sim.NewModifyRoutePath(id, r.PlannedTraffic(), sim.LinkSteps(r.PlannedPath())))
		st.reverted++
	}
	return actions
}

// releasedLinks returns the links whose occupation drops when traffic leaves
// steps: plain links and the links of shared segments. A dedicated segment
// keeps its reservation.
func releasedLinks(state sim.Reader, steps []sim.PathStep) []int {
	var links []int
	for _, st := range steps {
		if l, ok := st.Link(); ok {
			links = append(links, l)
			continue
		}
		if id, ok := st.Segment(); ok {
			if sg, ok := state.Segment(id); ok && !sg.IsDedicated() {
				links = append(links, sg.Path()...)
			}
		}
	}
	return links
}
