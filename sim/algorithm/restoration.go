package algorithm

import (
	"slices"

	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/sirupsen/logrus"
)

// Restoration reroutes every recoverable route hit by a failure along the
// shortest path with enough spare capacity. Routes allowing partial
// recovery take the best path with any spare capacity when no path fits
// their planned traffic. On reparation it reverts reparable routes and
// retries the routes still left without traffic.
type Restoration struct {
	weight string
	stats  stats
}

// NewRestoration creates a Restoration algorithm using the given path metric.
func NewRestoration(weight string) *Restoration {
	return &Restoration{weight: weight}
}

func (a *Restoration) Initialize(*sim.NetPlan, sim.Reader) error { return nil }

func (a *Restoration) ProcessEvent(plan *sim.NetPlan, state sim.Reader, ev sim.Event) ([]sim.Action, error) {
	if ev.Type.IsFailure() {
		eff, err := state.FailureEffects(ev)
		if err != nil {
			return nil, err
		}
		a.stats.unrestorable += len(eff.Unrecoverable)
		spare := slices.Clone(eff.LinkSpareCapacity)
		return restoreRoutes(plan, state, eff.Status, spare, byPriority(state, eff.Recoverable()), a.weight, &a.stats), nil
	}

	eff, err := state.ReparationEffects(ev)
	if err != nil {
		return nil, err
	}
	spare := slices.Clone(eff.LinkSpareCapacity)
	actions := revertReparable(state, eff, spare, &a.stats)
	actions = append(actions, restoreRoutes(plan, state, eff.Status, spare, stranded(state, eff), a.weight, &a.stats)...)
	return actions, nil
}

func (a *Restoration) Finish(sim.Reader) map[string]string { return a.stats.report() }

// stranded returns the degraded unreparable routes that carry no traffic
// and whose end nodes are up, in priority order.
func stranded(state sim.Reader, eff sim.ReparationEffects) []sim.RouteID {
	var out []sim.RouteID
	plan := state.Plan()
	for _, id := range eff.Unreparable {
		if !eff.IsDegraded(id) {
			continue
		}
		r, ok := state.Route(id)
		if !ok || r.CurrentTraffic() != 0 {
			continue
		}
		d := plan.Demands[r.Demand()]
		if eff.Status.NodeDown(d.Ingress) || eff.Status.NodeDown(d.Egress) {
			continue
		}
		out = append(out, id)
	}
	return byPriority(state, out)
}

// restoreRoutes computes a restoration path for each route in ids, in
// order, consuming spare as it goes.
func restoreRoutes(plan *sim.NetPlan, state sim.Reader, st sim.Status, spare []float64, ids []sim.RouteID, weight string, stats *stats) []sim.Action {
	precision := state.Config().PrecisionFactor
	var actions []sim.Action
	for _, id := range ids {
		r, ok := state.Route(id)
		if !ok {
			continue
		}
		d := plan.Demands[r.Demand()]
		need := r.PlannedTraffic()
		traffic := need
		links := shortestPath(plan, st, spare, d.Ingress, d.Egress, need, precision, weight)
		if links == nil {
			attrs, err := state.EffectiveRouteAttributes(id)
			if err == nil && attrs.AllowsPartialRecovery() {
				links = shortestPath(plan, st, spare, d.Ingress, d.Egress, 2*precision, precision, weight)
				if links != nil {
					traffic = min(need, bottleneck(spare, links))
					stats.partial++
				}
			}
		} else {
			stats.restored++
		}
		if links == nil {
			logrus.Debugf("route %d: no restoration path for demand %d", id, r.Demand())
			stats.unrestorable++
			continue
		}
		consume(spare, links, traffic)
		actions = append(actions, sim.NewModifyRoutePath(id, traffic, sim.LinkSteps(links)))
	}
	return actions
}
