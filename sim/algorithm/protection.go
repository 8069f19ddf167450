package algorithm

import (
	"maps"
	"slices"

	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/sirupsen/logrus"
)

// Protection moves each recoverable route hit by a failure onto the first
// of its backup segments that bypasses the failure and can take the
// route's planned traffic. The backup is spliced into the planned path.
// Routes with no usable backup are restored along a shortest path when
// fallback is enabled, and left at zero traffic otherwise.
type Protection struct {
	weight   string
	fallback bool
	stats    stats
}

// NewProtection creates a Protection algorithm. weight is only used by the
// restoration fallback.
func NewProtection(weight string, fallback bool) *Protection {
	return &Protection{weight: weight, fallback: fallback}
}

func (a *Protection) Initialize(*sim.NetPlan, sim.Reader) error { return nil }

func (a *Protection) ProcessEvent(plan *sim.NetPlan, state sim.Reader, ev sim.Event) ([]sim.Action, error) {
	if ev.Type.IsReparation() {
		eff, err := state.ReparationEffects(ev)
		if err != nil {
			return nil, err
		}
		spare := slices.Clone(eff.LinkSpareCapacity)
		actions := revertReparable(state, eff, spare, &a.stats)
		if a.fallback {
			actions = append(actions, restoreRoutes(plan, state, eff.Status, spare, stranded(state, eff), a.weight, &a.stats)...)
		}
		return actions, nil
	}

	eff, err := state.FailureEffects(ev)
	if err != nil {
		return nil, err
	}
	a.stats.unrestorable += len(eff.Unrecoverable)
	spare := slices.Clone(eff.LinkSpareCapacity)
	avail := maps.Clone(eff.SegmentAvailableCapacity)

	var actions []sim.Action
	var unprotected []sim.RouteID
	for _, id := range byPriority(state, eff.Recoverable()) {
		act, ok := a.protect(state, eff.Status, spare, avail, id)
		if ok {
			actions = append(actions, act)
			a.stats.protected++
			continue
		}
		if a.fallback {
			unprotected = append(unprotected, id)
			continue
		}
		logrus.Debugf("route %d: no usable backup segment", id)
		a.stats.unrestorable++
	}
	actions = append(actions, restoreRoutes(plan, state, eff.Status, spare, unprotected, a.weight, &a.stats)...)
	return actions, nil
}

// protect tries the backups of route id in order, consuming spare and
// avail for the one it picks.
func (a *Protection) protect(state sim.Reader, st sim.Status, spare []float64, avail map[sim.SegmentID]float64, id sim.RouteID) (sim.Action, bool) {
	r, ok := state.Route(id)
	if !ok {
		return nil, false
	}
	plan := state.Plan()
	precision := state.Config().PrecisionFactor
	need := r.PlannedTraffic()

	for _, sid := range r.BackupSegments() {
		sg, ok := state.Segment(sid)
		if !ok {
			continue
		}
		if sg.IsDedicated() {
			if avail[sid] < need-precision {
				continue
			}
		} else if bottleneck(spare, sg.Path()) < need-precision {
			continue
		}

		steps, err := state.MergedBackupRoute(sim.LinkSteps(r.PlannedPath()), sid)
		if err != nil {
			continue
		}
		links, err := state.ExpandPath(steps)
		if err != nil || st.PathDown(plan, links) {
			continue
		}
		plain := plainLinks(steps)
		if bottleneck(spare, plain) < need-precision {
			continue
		}

		consume(spare, plain, need)
		if sg.IsDedicated() {
			avail[sid] -= need
		} else {
			consume(spare, sg.Path(), need)
		}
		logrus.Debugf("route %d protected by segment %d: %s", id, sid, sim.FormatPath(steps))
		return sim.NewModifyRoutePath(id, need, steps), true
	}
	return nil, false
}

func (a *Protection) Finish(sim.Reader) map[string]string { return a.stats.report() }

func plainLinks(steps []sim.PathStep) []int {
	var links []int
	for _, st := range steps {
		if l, ok := st.Link(); ok {
			links = append(links, l)
		}
	}
	return links
}
