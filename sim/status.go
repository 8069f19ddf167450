package sim

import (
	"maps"
	"slices"
)

// intSet is a small set of element indices.
type intSet map[int]struct{}

func (s intSet) has(v int) bool {
	_, ok := s[v]
	return ok
}

func (s intSet) add(v int) { s[v] = struct{}{} }
func (s intSet) del(v int) { delete(s, v) }

func (s intSet) sorted() []int {
	return slices.Sorted(maps.Keys(s))
}

// failureState is the failed/repaired element bookkeeping: the SRGs marked
// down plus per-element overrides set by node and link events.
type failureState struct {
	downSRGs     intSet
	auxDownNodes intSet
	auxUpNodes   intSet
	auxDownLinks intSet
	auxUpLinks   intSet
}

func newFailureState() failureState {
	return failureState{
		downSRGs:     intSet{},
		auxDownNodes: intSet{},
		auxUpNodes:   intSet{},
		auxDownLinks: intSet{},
		auxUpLinks:   intSet{},
	}
}

func (f failureState) clone() failureState {
	return failureState{
		downSRGs:     maps.Clone(f.downSRGs),
		auxDownNodes: maps.Clone(f.auxDownNodes),
		auxUpNodes:   maps.Clone(f.auxUpNodes),
		auxDownLinks: maps.Clone(f.auxDownLinks),
		auxUpLinks:   maps.Clone(f.auxUpLinks),
	}
}

// apply records ev. An SRG event supersedes every override held for the
// SRG's members; a node or link event sets an override for that element.
// ev must have been validated against plan.
func (f failureState) apply(plan *NetPlan, ev Event) {
	switch ev.Type {
	case EventSRGFailure, EventSRGReparation:
		if ev.Type == EventSRGFailure {
			f.downSRGs.add(ev.Target)
		} else {
			f.downSRGs.del(ev.Target)
		}
		srg := plan.SRGs[ev.Target]
		for _, n := range srg.Nodes {
			f.auxDownNodes.del(n)
			f.auxUpNodes.del(n)
		}
		for _, l := range srg.Links {
			f.auxDownLinks.del(l)
			f.auxUpLinks.del(l)
		}
	case EventNodeFailure:
		f.auxDownNodes.add(ev.Target)
		f.auxUpNodes.del(ev.Target)
	case EventNodeReparation:
		f.auxUpNodes.add(ev.Target)
		f.auxDownNodes.del(ev.Target)
	case EventLinkFailure:
		f.auxDownLinks.add(ev.Target)
		f.auxUpLinks.del(ev.Target)
	case EventLinkReparation:
		f.auxUpLinks.add(ev.Target)
		f.auxDownLinks.del(ev.Target)
	}
}

// status resolves the bookkeeping into per-element flags:
// down(X) = (X in a down SRG or X in aux-down) and X not in aux-up.
func (f failureState) status(plan *NetPlan) Status {
	st := Status{
		nodes: make([]bool, plan.NumNodes()),
		links: make([]bool, plan.NumLinks()),
	}
	for s := range f.downSRGs {
		srg := plan.SRGs[s]
		for _, n := range srg.Nodes {
			st.nodes[n] = true
		}
		for _, l := range srg.Links {
			st.links[l] = true
		}
	}
	for n := range f.auxDownNodes {
		st.nodes[n] = true
	}
	for l := range f.auxDownLinks {
		st.links[l] = true
	}
	for n := range f.auxUpNodes {
		st.nodes[n] = false
	}
	for l := range f.auxUpLinks {
		st.links[l] = false
	}
	return st
}

// Status is a resolved snapshot of which nodes and links are down.
type Status struct {
	nodes []bool
	links []bool
}

// NodeDown reports whether node n is down.
func (s Status) NodeDown(n int) bool { return n >= 0 && n < len(s.nodes) && s.nodes[n] }

// LinkDown reports whether link l itself is down. Use PathDown to also
// account for the link's end nodes.
func (s Status) LinkDown(l int) bool { return l >= 0 && l < len(s.links) && s.links[l] }

// DownNodes returns the down node indices in increasing order.
func (s Status) DownNodes() []int { return trueIndices(s.nodes) }

// DownLinks returns the down link indices in increasing order.
func (s Status) DownLinks() []int { return trueIndices(s.links) }

// LinkUsable reports whether link l and both of its end nodes are up.
func (s Status) LinkUsable(plan *NetPlan, l int) bool {
	link := plan.Links[l]
	return !s.LinkDown(l) && !s.NodeDown(link.Origin) && !s.NodeDown(link.Destination)
}

// PathDown reports whether any link of links, or any node those links
// traverse, is down.
func (s Status) PathDown(plan *NetPlan, links []int) bool {
	for _, l := range links {
		if !s.LinkUsable(plan, l) {
			return true
		}
	}
	return false
}

func (s Status) clone() Status {
	return Status{nodes: slices.Clone(s.nodes), links: slices.Clone(s.links)}
}

func trueIndices(flags []bool) []int {
	var out []int
	for i, f := range flags {
		if f {
			out = append(out, i)
		}
	}
	return out
}
