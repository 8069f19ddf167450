package sim

import (
	"fmt"
	"slices"
	"strings"
)

// NodeTraffic is the traffic a node injects, absorbs and forwards.
type NodeTraffic struct {
	Ingress float64
	Egress  float64
	Transit float64
}

// LinkCarriedTraffic returns the traffic of every route traversing link l
// through its current path, whether over a plain link step or a segment.
func (d *netData) LinkCarriedTraffic(l int) float64 {
	total := 0.0
	for _, r := range d.routes {
		if r == nil || r.currentTraffic == 0 {
			continue
		}
		for _, x := range d.expand(r.currentPath) {
			if x == l {
				total += r.currentTraffic
			}
		}
	}
	return total
}

// LinkReservedBandwidth returns the bandwidth dedicated segments reserve on link l.
func (d *netData) LinkReservedBandwidth(l int) float64 {
	total := 0.0
	for _, sg := range d.segments {
		if sg == nil {
			continue
		}
		for _, x := range sg.path {
			if x == l {
				total += sg.reserved
			}
		}
	}
	return total
}

// LinkOccupiedCapacity returns the capacity committed on link l: traffic
// over plain links and shared segments, plus for each dedicated segment the
// larger of its reservation and the traffic routed through it.
func (d *netData) LinkOccupiedCapacity(l int) float64 {
	return d.linkOccupation(nil)[l]
}

// linkOccupation computes LinkOccupiedCapacity for every link, ignoring the
// routes for which skip returns true.
func (d *netData) linkOccupation(skip func(*Route) bool) []float64 {
	occ := make([]float64, d.plan.NumLinks())
	viaDedicated := make([]float64, len(d.segments))
	for _, r := range d.routes {
		if r == nil || (skip != nil && skip(r)) {
			continue
		}
		for _, st := range r.currentPath {
			if l, ok := st.Link(); ok {
				occ[l] += r.currentTraffic
				continue
			}
			id, _ := st.Segment()
			sg := d.segments[id]
			if sg.IsDedicated() {
				viaDedicated[id] += r.currentTraffic
				continue
			}
			for _, l := range sg.path {
				occ[l] += r.currentTraffic
			}
		}
	}
	for id, sg := range d.segments {
		if sg == nil || !sg.IsDedicated() {
			continue
		}
		committed := max(sg.reserved, viaDedicated[id])
		for _, l := range sg.path {
			occ[l] += committed
		}
	}
	return occ
}

// OversubscribedLinks returns the links whose occupied capacity exceeds
// their capacity beyond the precision factor, in increasing order.
func (d *netData) OversubscribedLinks() []int {
	return d.oversubscribed(d.cfg.PrecisionFactor)
}

func (d *netData) oversubscribed(tolerance float64) []int {
	var out []int
	for l, occ := range d.linkOccupation(nil) {
		if exceeds(occ, d.plan.Links[l].Capacity, tolerance) {
			out = append(out, l)
		}
	}
	return out
}

// DemandCarriedTraffic returns the current traffic carried by all routes of demand.
func (d *netData) DemandCarriedTraffic(demand int) float64 {
	total := 0.0
	for _, r := range d.routes {
		if r != nil && r.demand == demand {
			total += r.currentTraffic
		}
	}
	return total
}

// DemandBlockedTraffic returns the offered traffic of demand not currently carried.
func (d *netData) DemandBlockedTraffic(demand int) float64 {
	return max(0, d.plan.Demands[demand].OfferedTraffic-d.DemandCarriedTraffic(demand))
}

// TotalCarriedTraffic returns the current traffic summed over all routes.
func (d *netData) TotalCarriedTraffic() float64 {
	total := 0.0
	for _, r := range d.routes {
		if r != nil {
			total += r.currentTraffic
		}
	}
	return total
}

// TotalOfferedTraffic returns the offered traffic summed over all demands.
func (d *netData) TotalOfferedTraffic() float64 {
	total := 0.0
	for _, dm := range d.plan.Demands {
		total += dm.OfferedTraffic
	}
	return total
}

// NodeTraffic returns the ingress, egress and transit traffic of node n,
// computed from the planned paths and traffic when planned is true and from
// the current ones otherwise.
func (d *netData) NodeTraffic(n int, planned bool) NodeTraffic {
	var nt NodeTraffic
	for _, r := range d.routes {
		if r == nil {
			continue
		}
		traffic, links := r.currentTraffic, []int(nil)
		if planned {
			traffic, links = r.plannedTraffic, r.plannedPath
		} else {
			links = d.expand(r.currentPath)
		}
		dm := d.plan.Demands[r.demand]
		if dm.Ingress == n {
			nt.Ingress += traffic
		}
		if dm.Egress == n {
			nt.Egress += traffic
		}
		nodes := d.plan.NodeSequence(links)
		for i := 1; i < len(nodes)-1; i++ {
			if nodes[i] == n {
				nt.Transit += traffic
			}
		}
	}
	return nt
}

// RoutesOfDemand returns the live routes of demand in increasing id order.
func (d *netData) RoutesOfDemand(demand int) []RouteID {
	var out []RouteID
	for _, r := range d.routes {
		if r != nil && r.demand == demand {
			out = append(out, r.id)
		}
	}
	return out
}

// RoutesTraversingLink returns the routes whose current path, expanded,
// traverses link l.
func (d *netData) RoutesTraversingLink(l int) []RouteID {
	var out []RouteID
	for _, r := range d.routes {
		if r != nil && slices.Contains(d.expand(r.currentPath), l) {
			out = append(out, r.id)
		}
	}
	return out
}

// SegmentsTraversingLink returns the protection segments traversing link l.
func (d *netData) SegmentsTraversingLink(l int) []SegmentID {
	var out []SegmentID
	for _, sg := range d.segments {
		if sg != nil && slices.Contains(sg.path, l) {
			out = append(out, sg.id)
		}
	}
	return out
}

// RoutesAffectedBySRG returns the routes whose current path traverses a
// node or link of srg.
func (d *netData) RoutesAffectedBySRG(srg int) ([]RouteID, error) {
	if !d.plan.validSRG(srg) {
		return nil, invalidOpf("unknown srg %d", srg)
	}
	var out []RouteID
	for _, r := range d.routes {
		if r != nil && d.touchesSRG(d.expand(r.currentPath), srg) {
			out = append(out, r.id)
		}
	}
	return out, nil
}

// SegmentsAffectedBySRG returns the segments traversing a node or link of srg.
func (d *netData) SegmentsAffectedBySRG(srg int) ([]SegmentID, error) {
	if !d.plan.validSRG(srg) {
		return nil, invalidOpf("unknown srg %d", srg)
	}
	var out []SegmentID
	for _, sg := range d.segments {
		if sg != nil && d.touchesSRG(sg.path, srg) {
			out = append(out, sg.id)
		}
	}
	return out, nil
}

func (d *netData) touchesSRG(links []int, srg int) bool {
	g := d.plan.SRGs[srg]
	for _, l := range links {
		link := d.plan.Links[l]
		if slices.Contains(g.Links, l) || slices.Contains(g.Nodes, link.Origin) || slices.Contains(g.Nodes, link.Destination) {
			return true
		}
	}
	return false
}

// CheckValidity asserts network-wide consistency: no link may be
// oversubscribed and no demand may carry more than its offered traffic,
// both beyond tolerance, unless the respective check is allowed.
func (d *netData) CheckValidity(tolerance float64, allowOversubscription, allowExcessTraffic bool) error {
	var problems []string
	if !allowOversubscription {
		if links := d.oversubscribed(tolerance); len(links) > 0 {
			problems = append(problems, fmt.Sprintf("oversubscribed links %v", links))
		}
	}
	if !allowExcessTraffic {
		for i, dm := range d.plan.Demands {
			if carried := d.DemandCarriedTraffic(i); exceeds(carried, dm.OfferedTraffic, tolerance) {
				problems = append(problems, fmt.Sprintf("demand %d carries %g over an offered %g", i, carried, dm.OfferedTraffic))
			}
		}
	}
	if len(problems) > 0 {
		return invalidOpf("%s", strings.Join(problems, "; "))
	}
	return nil
}
