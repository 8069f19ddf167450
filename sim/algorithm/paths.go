package algorithm

import (
	"cmp"
	"math"
	"slices"

	"github.com/netplan-sim/resilience-sim/sim"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// shortestPath returns the lightest link path from ingress to egress over
// the links that are usable under st and have at least need spare capacity
// (within precision). Returns nil when no such path exists. Of several
// parallel links between the same two nodes only the lightest is kept,
// ties going to the one with more spare capacity.
func shortestPath(plan *sim.NetPlan, st sim.Status, spare []float64, ingress, egress int, need, precision float64, weight string) []int {
	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for n := range plan.Nodes {
		g.AddNode(simple.Node(n))
	}
	type hop struct{ from, to int }
	best := make(map[hop]int)
	for l, link := range plan.Links {
		if !st.LinkUsable(plan, l) || spare[l] < need-precision {
			continue
		}
		h := hop{link.Origin, link.Destination}
		if prev, ok := best[h]; ok {
			wp, wl := linkWeight(plan, prev, weight), linkWeight(plan, l, weight)
			if wp < wl || (wp == wl && spare[prev] >= spare[l]) {
				continue
			}
		}
		best[h] = l
		g.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(link.Origin),
			T: simple.Node(link.Destination),
			W: linkWeight(plan, l, weight),
		})
	}

	nodes, w := path.DijkstraFrom(simple.Node(ingress), g).To(int64(egress))
	if len(nodes) < 2 || math.IsInf(w, 1) {
		return nil
	}
	links := make([]int, 0, len(nodes)-1)
	for i := 1; i < len(nodes); i++ {
		links = append(links, best[hop{int(nodes[i-1].ID()), int(nodes[i].ID())}])
	}
	return links
}

func linkWeight(plan *sim.NetPlan, l int, weight string) float64 {
	if weight == WeightLength {
		return plan.Links[l].LengthKm
	}
	return 1
}

// bottleneck returns the smallest spare capacity along links.
func bottleneck(spare []float64, links []int) float64 {
	b := math.Inf(1)
	for _, l := range links {
		b = min(b, spare[l])
	}
	return b
}

// consume subtracts traffic from the spare capacity of links.
func consume(spare []float64, links []int, traffic float64) {
	for _, l := range links {
		spare[l] -= traffic
	}
}

// byPriority orders route ids by decreasing priority, then increasing id.
func byPriority(state sim.Reader, ids []sim.RouteID) []sim.RouteID {
	prio := make(map[sim.RouteID]int, len(ids))
	for _, id := range ids {
		if a, err := state.EffectiveRouteAttributes(id); err == nil {
			prio[id] = a.PriorityOr(0)
		}
	}
	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b sim.RouteID) int {
		if c := cmp.Compare(prio[b], prio[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}
