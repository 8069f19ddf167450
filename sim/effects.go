package sim

import "slices"

// FailureEffects describes what a failure event would do to the current
// state. It is computed without mutating the state.
type FailureEffects struct {
	Event Event
	// Status is the node and link status once the event is applied.
	Status Status
	// LinkSpareCapacity is, per link, the capacity left after the traffic of
	// the unaffected routes and the dedicated reservations; 0 for unusable links.
	LinkSpareCapacity []float64
	// SegmentAvailableCapacity is, per live segment, the traffic it could
	// still accept: its unused reservation when dedicated, the bottleneck
	// spare capacity of its links when shared, 0 when down.
	SegmentAvailableCapacity map[SegmentID]float64
	// Affected lists the routes whose current path touches a down element.
	Affected []RouteID
	// Unrecoverable is the subset of Affected whose demand ingress or egress
	// node is down, so no reroute can exist.
	Unrecoverable []RouteID
}

// ReparationEffects describes what a reparation event would do to the
// current state. It is computed without mutating the state.
type ReparationEffects struct {
	Event                    Event
	Status                   Status
	LinkSpareCapacity        []float64
	SegmentAvailableCapacity map[SegmentID]float64
	// Reparable lists the routes whose planned path is fully up after the
	// event; Unreparable lists the others. Together they cover every route.
	Reparable   []RouteID
	Unreparable []RouteID
	// Degraded lists the routes off their planned path or below their
	// planned traffic.
	Degraded []RouteID
}

// IsAffected reports whether id is listed in Affected.
func (e FailureEffects) IsAffected(id RouteID) bool { return slices.Contains(e.Affected, id) }

// IsUnrecoverable reports whether id is listed in Unrecoverable.
func (e FailureEffects) IsUnrecoverable(id RouteID) bool { return slices.Contains(e.Unrecoverable, id) }

// Recoverable returns the affected routes that are not unrecoverable.
func (e FailureEffects) Recoverable() []RouteID {
	var out []RouteID
	for _, id := range e.Affected {
		if !e.IsUnrecoverable(id) {
			out = append(out, id)
		}
	}
	return out
}

// IsReparable reports whether id is listed in Reparable.
func (e ReparationEffects) IsReparable(id RouteID) bool { return slices.Contains(e.Reparable, id) }

// IsDegraded reports whether id is listed in Degraded.
func (e ReparationEffects) IsDegraded(id RouteID) bool { return slices.Contains(e.Degraded, id) }

// DegradedReparable returns the reparable routes that are degraded.
func (e ReparationEffects) DegradedReparable() []RouteID {
	var out []RouteID
	for _, id := range e.Reparable {
		if e.IsDegraded(id) {
			out = append(out, id)
		}
	}
	return out
}

// FailureEffects evaluates failure event ev against the current state.
func (d *netData) FailureEffects(ev Event) (FailureEffects, error) {
	if !ev.Type.IsFailure() {
		return FailureEffects{}, invalidOpf("%s is not a failure event", ev.Type)
	}
	st, err := d.statusAfter(ev)
	if err != nil {
		return FailureEffects{}, err
	}
	eff := FailureEffects{Event: ev, Status: st}
	affected := make(map[RouteID]bool)
	for _, r := range d.routes {
		if r == nil || !st.PathDown(d.plan, d.expand(r.currentPath)) {
			continue
		}
		affected[r.id] = true
		eff.Affected = append(eff.Affected, r.id)
		dm := d.plan.Demands[r.demand]
		if st.NodeDown(dm.Ingress) || st.NodeDown(dm.Egress) {
			eff.Unrecoverable = append(eff.Unrecoverable, r.id)
		}
	}
	eff.LinkSpareCapacity, eff.SegmentAvailableCapacity = d.capacityAfter(st, func(r *Route) bool { return affected[r.id] })
	return eff, nil
}

// ReparationEffects evaluates reparation event ev against the current state.
func (d *netData) ReparationEffects(ev Event) (ReparationEffects, error) {
	if !ev.Type.IsReparation() {
		return ReparationEffects{}, invalidOpf("%s is not a reparation event", ev.Type)
	}
	st, err := d.statusAfter(ev)
	if err != nil {
		return ReparationEffects{}, err
	}
	eff := ReparationEffects{Event: ev, Status: st}
	for _, r := range d.routes {
		if r == nil {
			continue
		}
		if d.degraded(r) {
			eff.Degraded = append(eff.Degraded, r.id)
		}
		if st.PathDown(d.plan, r.plannedPath) {
			eff.Unreparable = append(eff.Unreparable, r.id)
		} else {
			eff.Reparable = append(eff.Reparable, r.id)
		}
	}
	eff.LinkSpareCapacity, eff.SegmentAvailableCapacity = d.capacityAfter(st, nil)
	return eff, nil
}

// degraded reports whether r is off its planned path or carries less than
// its planned traffic.
func (d *netData) degraded(r *Route) bool {
	return !r.IsOnPlannedPath() || r.currentTraffic < r.plannedTraffic-d.cfg.PrecisionFactor
}

// statusAfter resolves the element status ev would produce.
func (d *netData) statusAfter(ev Event) (Status, error) {
	if err := ev.Validate(d.plan); err != nil {
		return Status{}, err
	}
	f := d.failures.clone()
	f.apply(d.plan, ev)
	return f.status(d.plan), nil
}

func (d *netData) capacityAfter(st Status, release func(*Route) bool) ([]float64, map[SegmentID]float64) {
	occ := d.linkOccupation(release)
	spare := make([]float64, len(occ))
	for l, o := range occ {
		if st.LinkUsable(d.plan, l) {
			spare[l] = d.plan.Links[l].Capacity - o
		}
	}

	viaSegment := make(map[SegmentID]float64)
	for _, r := range d.routes {
		if r == nil || (release != nil && release(r)) {
			continue
		}
		for _, step := range r.currentPath {
			if id, ok := step.Segment(); ok {
				viaSegment[id] += r.currentTraffic
			}
		}
	}
	avail := make(map[SegmentID]float64)
	for _, sg := range d.segments {
		if sg == nil {
			continue
		}
		if st.PathDown(d.plan, sg.path) {
			avail[sg.id] = 0
			continue
		}
		if sg.IsDedicated() {
			avail[sg.id] = max(0, sg.reserved-viaSegment[sg.id])
			continue
		}
		bottleneck := spare[sg.path[0]]
		for _, l := range sg.path[1:] {
			bottleneck = min(bottleneck, spare[l])
		}
		avail[sg.id] = max(0, bottleneck)
	}
	return spare, avail
}
