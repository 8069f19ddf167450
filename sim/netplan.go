package sim

import (
	"fmt"
	"slices"
)

// Node is a network node of the static plan.
type Node struct {
	Name string `yaml:"name" validate:"required"`
}

// Link is a unidirectional link from Origin to Destination.
type Link struct {
	Name        string  `yaml:"name,omitempty"`
	Origin      int     `yaml:"origin" validate:"gte=0"`
	Destination int     `yaml:"destination" validate:"gte=0"`
	Capacity    float64 `yaml:"capacity" validate:"gte=0"`
	LengthKm    float64 `yaml:"length_km,omitempty" validate:"gte=0"`
}

// Demand is an offered traffic volume between an ingress and an egress node.
type Demand struct {
	Name           string     `yaml:"name,omitempty"`
	Ingress        int        `yaml:"ingress" validate:"gte=0"`
	Egress         int        `yaml:"egress" validate:"gte=0"`
	OfferedTraffic float64    `yaml:"offered_traffic" validate:"gte=0"`
	Attributes     Attributes `yaml:"attributes,omitempty"`
}

// SRG is a shared risk group: nodes and links that fail and repair together.
// MTTFHours and MTTRHours are only read by the random failure generator;
// zero means "use the generator defaults".
type SRG struct {
	Name      string  `yaml:"name,omitempty"`
	Nodes     []int   `yaml:"nodes,omitempty" validate:"dive,gte=0"`
	Links     []int   `yaml:"links,omitempty" validate:"dive,gte=0"`
	MTTFHours float64 `yaml:"mttf_hours,omitempty" validate:"gte=0"`
	MTTRHours float64 `yaml:"mttr_hours,omitempty" validate:"gte=0"`
}

// PlannedRoute is an initial route of the plan. BackupSegments index into
// NetPlan.Segments.
type PlannedRoute struct {
	Demand         int        `yaml:"demand" validate:"gte=0"`
	CarriedTraffic float64    `yaml:"carried_traffic" validate:"gte=0"`
	Path           []int      `yaml:"path" validate:"required,min=1,dive,gte=0"`
	BackupSegments []int      `yaml:"backup_segments,omitempty" validate:"dive,gte=0"`
	Attributes     Attributes `yaml:"attributes,omitempty"`
}

// PlannedSegment is an initial protection segment of the plan.
type PlannedSegment struct {
	ReservedBandwidth float64    `yaml:"reserved_bandwidth" validate:"gte=0"`
	Path              []int      `yaml:"path" validate:"required,min=1,dive,gte=0"`
	Attributes        Attributes `yaml:"attributes,omitempty"`
}

// NetPlan is the static, read-only network plan the kernel is built from.
// The kernel never mutates a NetPlan it was given.
type NetPlan struct {
	Nodes      []Node           `yaml:"nodes" validate:"required,min=1,dive"`
	Links      []Link           `yaml:"links" validate:"dive"`
	Demands    []Demand         `yaml:"demands" validate:"dive"`
	SRGs       []SRG            `yaml:"srgs,omitempty" validate:"dive"`
	Routes     []PlannedRoute   `yaml:"routes,omitempty" validate:"dive"`
	Segments   []PlannedSegment `yaml:"segments,omitempty" validate:"dive"`
	Attributes Attributes       `yaml:"attributes,omitempty"`
}

// NumNodes returns the number of nodes.
func (p *NetPlan) NumNodes() int { return len(p.Nodes) }

// NumLinks returns the number of links.
func (p *NetPlan) NumLinks() int { return len(p.Links) }

// NumDemands returns the number of demands.
func (p *NetPlan) NumDemands() int { return len(p.Demands) }

// NumSRGs returns the number of shared risk groups.
func (p *NetPlan) NumSRGs() int { return len(p.SRGs) }

func (p *NetPlan) validNode(n int) bool   { return n >= 0 && n < len(p.Nodes) }
func (p *NetPlan) validLink(l int) bool   { return l >= 0 && l < len(p.Links) }
func (p *NetPlan) validDemand(d int) bool { return d >= 0 && d < len(p.Demands) }
func (p *NetPlan) validSRG(s int) bool    { return s >= 0 && s < len(p.SRGs) }

// NodeSequence converts a link sequence into the sequence of nodes it
// traverses: the origin of the first link followed by the destination of
// every link. The links are assumed continuous; an empty input yields nil.
func (p *NetPlan) NodeSequence(links []int) []int {
	if len(links) == 0 {
		return nil
	}
	nodes := make([]int, 0, len(links)+1)
	nodes = append(nodes, p.Links[links[0]].Origin)
	for _, l := range links {
		nodes = append(nodes, p.Links[l].Destination)
	}
	return nodes
}

// CheckContinuous verifies that links is a non-empty sequence of known
// links where each link starts at the node the previous one ends at.
func (p *NetPlan) CheckContinuous(links []int) error {
	if len(links) == 0 {
		return invalidOpf("empty path")
	}
	for i, l := range links {
		if !p.validLink(l) {
			return invalidOpf("unknown link %d at path position %d", l, i)
		}
		if i > 0 && p.Links[links[i-1]].Destination != p.Links[l].Origin {
			return invalidOpf("path is not continuous between link %d and link %d", links[i-1], l)
		}
	}
	return nil
}

// CheckDemandPath verifies that links is continuous and goes from the
// demand's ingress node to its egress node.
func (p *NetPlan) CheckDemandPath(demand int, links []int) error {
	if !p.validDemand(demand) {
		return invalidOpf("unknown demand %d", demand)
	}
	if err := p.CheckContinuous(links); err != nil {
		return err
	}
	d := p.Demands[demand]
	if first := p.Links[links[0]].Origin; first != d.Ingress {
		return invalidOpf("path of demand %d starts at node %d, not at its ingress node %d", demand, first, d.Ingress)
	}
	if last := p.Links[links[len(links)-1]].Destination; last != d.Egress {
		return invalidOpf("path of demand %d ends at node %d, not at its egress node %d", demand, last, d.Egress)
	}
	return nil
}

// Validate checks the cross references of the plan: link endpoints, demand
// endpoints and SRG members must name existing elements. Route and segment
// consistency is checked when the state is reset from the plan.
func (p *NetPlan) Validate() error {
	if len(p.Nodes) == 0 {
		return fmt.Errorf("plan has no nodes")
	}
	for i, l := range p.Links {
		if !p.validNode(l.Origin) || !p.validNode(l.Destination) {
			return fmt.Errorf("link %d: endpoints (%d, %d) out of range [0, %d)", i, l.Origin, l.Destination, len(p.Nodes))
		}
		if l.Origin == l.Destination {
			return fmt.Errorf("link %d: self-loop at node %d", i, l.Origin)
		}
		if l.Capacity < 0 {
			return fmt.Errorf("link %d: capacity must be non-negative, got %f", i, l.Capacity)
		}
	}
	for i, d := range p.Demands {
		if !p.validNode(d.Ingress) || !p.validNode(d.Egress) {
			return fmt.Errorf("demand %d: endpoints (%d, %d) out of range [0, %d)", i, d.Ingress, d.Egress, len(p.Nodes))
		}
		if d.Ingress == d.Egress {
			return fmt.Errorf("demand %d: ingress equals egress (%d)", i, d.Ingress)
		}
		if !validTraffic(d.OfferedTraffic) {
			return fmt.Errorf("demand %d: offered traffic must be a non-negative number, got %f", i, d.OfferedTraffic)
		}
	}
	for i, s := range p.SRGs {
		for _, n := range s.Nodes {
			if !p.validNode(n) {
				return fmt.Errorf("srg %d: unknown node %d", i, n)
			}
		}
		for _, l := range s.Links {
			if !p.validLink(l) {
				return fmt.Errorf("srg %d: unknown link %d", i, l)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the plan.
func (p *NetPlan) Clone() *NetPlan {
	out := &NetPlan{
		Nodes:      slices.Clone(p.Nodes),
		Links:      slices.Clone(p.Links),
		Demands:    make([]Demand, len(p.Demands)),
		SRGs:       make([]SRG, len(p.SRGs)),
		Routes:     make([]PlannedRoute, len(p.Routes)),
		Segments:   make([]PlannedSegment, len(p.Segments)),
		Attributes: p.Attributes.clone(),
	}
	for i, d := range p.Demands {
		d.Attributes = d.Attributes.clone()
		out.Demands[i] = d
	}
	for i, s := range p.SRGs {
		s.Nodes = slices.Clone(s.Nodes)
		s.Links = slices.Clone(s.Links)
		out.SRGs[i] = s
	}
	for i, r := range p.Routes {
		r.Path = slices.Clone(r.Path)
		r.BackupSegments = slices.Clone(r.BackupSegments)
		r.Attributes = r.Attributes.clone()
		out.Routes[i] = r
	}
	for i, s := range p.Segments {
		s.Path = slices.Clone(s.Path)
		s.Attributes = s.Attributes.clone()
		out.Segments[i] = s
	}
	return out
}
