// Package testutil provides shared test fixtures and assertion helpers for
// the sim packages. Plans are exposed as YAML so every package, sim itself
// included, can load them without an import cycle.
package testutil

import (
	"math"
	"testing"
)

// TwoNodePlanYAML is a pair of nodes joined by one link in each direction.
// Demand 0 offers 5 units from node 0 to node 1 and is fully carried by
// route 0 over link 0. SRG 0 holds link 0 only.
const TwoNodePlanYAML = `
nodes:
  - name: A
  - name: B
links:
  - {name: A-B, origin: 0, destination: 1, capacity: 10}
  - {name: B-A, origin: 1, destination: 0, capacity: 10}
demands:
  - {name: A->B, ingress: 0, egress: 1, offered_traffic: 5}
srgs:
  - {name: duct-AB, links: [0], mttf_hours: 1000, mttr_hours: 10}
routes:
  - {demand: 0, carried_traffic: 5, path: [0]}
`

// RingPlanYAML is a four node bidirectional ring.
//
//	links 0..3 run clockwise   0->1, 1->2, 2->3, 3->0
//	links 4..7 run the reverse 1->0, 2->1, 3->2, 0->3
//
// Every link has capacity 10. Demand 0 offers 4 from node 0 to node 2 and
// route 0 carries it over [0 1]; demand 1 offers 3 from node 1 to node 3 and
// route 1 carries it over [1 2]. Segment 0 is a dedicated 4 unit backup
// 0->3->2 over [7 6] listed in route 0's backups. SRG 0 is link 1, SRG 1 is
// node 1, SRG 2 is the duct holding links 0 and 4. The plan is revertive.
const RingPlanYAML = `
nodes:
  - name: n0
  - name: n1
  - name: n2
  - name: n3
links:
  - {origin: 0, destination: 1, capacity: 10, length_km: 10}
  - {origin: 1, destination: 2, capacity: 10, length_km: 10}
  - {origin: 2, destination: 3, capacity: 10, length_km: 10}
  - {origin: 3, destination: 0, capacity: 10, length_km: 10}
  - {origin: 1, destination: 0, capacity: 10, length_km: 10}
  - {origin: 2, destination: 1, capacity: 10, length_km: 10}
  - {origin: 3, destination: 2, capacity: 10, length_km: 10}
  - {origin: 0, destination: 3, capacity: 10, length_km: 10}
demands:
  - {ingress: 0, egress: 2, offered_traffic: 4}
  - {ingress: 1, egress: 3, offered_traffic: 3}
srgs:
  - {name: link-1-2, links: [1], mttf_hours: 500, mttr_hours: 5}
  - {name: node-1, nodes: [1], mttf_hours: 2000, mttr_hours: 8}
  - {name: duct-0-1, links: [0, 4], mttf_hours: 800, mttr_hours: 12}
routes:
  - {demand: 0, carried_traffic: 4, path: [0, 1], backup_segments: [0]}
  - {demand: 1, carried_traffic: 3, path: [1, 2]}
segments:
  - {reserved_bandwidth: 4, path: [7, 6]}
attributes:
  revertive: true
`

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
