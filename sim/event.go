package sim

import "fmt"

// EventType is the kind of a resilience event.
type EventType string

const (
	EventSRGFailure     EventType = "SRG_FAILURE"
	EventSRGReparation  EventType = "SRG_REPARATION"
	EventNodeFailure    EventType = "NODE_FAILURE"
	EventNodeReparation EventType = "NODE_REPARATION"
	EventLinkFailure    EventType = "LINK_FAILURE"
	EventLinkReparation EventType = "LINK_REPARATION"
)

// validEventTypes maps accepted event type strings.
var validEventTypes = map[EventType]bool{
	EventSRGFailure:     true,
	EventSRGReparation:  true,
	EventNodeFailure:    true,
	EventNodeReparation: true,
	EventLinkFailure:    true,
	EventLinkReparation: true,
}

// IsValidEventType returns true if the given string is a recognized event type.
func IsValidEventType(t string) bool {
	return validEventTypes[EventType(t)]
}

// IsFailure reports whether the event takes an element down.
func (t EventType) IsFailure() bool {
	return t == EventSRGFailure || t == EventNodeFailure || t == EventLinkFailure
}

// IsReparation reports whether the event brings an element back up.
func (t EventType) IsReparation() bool {
	return t == EventSRGReparation || t == EventNodeReparation || t == EventLinkReparation
}

// IsSRG reports whether the event targets a shared risk group.
func (t EventType) IsSRG() bool { return t == EventSRGFailure || t == EventSRGReparation }

// IsNode reports whether the event targets a single node.
func (t EventType) IsNode() bool { return t == EventNodeFailure || t == EventNodeReparation }

// IsLink reports whether the event targets a single link.
func (t EventType) IsLink() bool { return t == EventLinkFailure || t == EventLinkReparation }

// Event is a timestamped failure or repair of one SRG, node or link.
// Time is expressed in hours since the start of the run.
type Event struct {
	Time   float64   `yaml:"time"`
	Type   EventType `yaml:"type"`
	Target int       `yaml:"target"`
}

// NewSRGFailure returns an SRG_FAILURE event.
func NewSRGFailure(t float64, srg int) Event { return Event{Time: t, Type: EventSRGFailure, Target: srg} }

// NewSRGReparation returns an SRG_REPARATION event.
func NewSRGReparation(t float64, srg int) Event {
	return Event{Time: t, Type: EventSRGReparation, Target: srg}
}

// NewNodeFailure returns a NODE_FAILURE event.
func NewNodeFailure(t float64, node int) Event {
	return Event{Time: t, Type: EventNodeFailure, Target: node}
}

// NewNodeReparation returns a NODE_REPARATION event.
func NewNodeReparation(t float64, node int) Event {
	return Event{Time: t, Type: EventNodeReparation, Target: node}
}

// NewLinkFailure returns a LINK_FAILURE event.
func NewLinkFailure(t float64, link int) Event {
	return Event{Time: t, Type: EventLinkFailure, Target: link}
}

// NewLinkReparation returns a LINK_REPARATION event.
func NewLinkReparation(t float64, link int) Event {
	return Event{Time: t, Type: EventLinkReparation, Target: link}
}

// Validate checks the event type and that the target exists in plan.
func (e Event) Validate(plan *NetPlan) error {
	switch {
	case !validEventTypes[e.Type]:
		return invalidOpf("unknown event type %q", e.Type)
	case e.Type.IsSRG() && !plan.validSRG(e.Target):
		return invalidOpf("%s: unknown srg %d", e.Type, e.Target)
	case e.Type.IsNode() && !plan.validNode(e.Target):
		return invalidOpf("%s: unknown node %d", e.Type, e.Target)
	case e.Type.IsLink() && !plan.validLink(e.Target):
		return invalidOpf("%s: unknown link %d", e.Type, e.Target)
	}
	return nil
}

// Elements returns the nodes and links directly named by the event: the
// members of the SRG for SRG events, the single element otherwise.
func (e Event) Elements(plan *NetPlan) (nodes, links []int) {
	switch {
	case e.Type.IsSRG():
		srg := plan.SRGs[e.Target]
		return srg.Nodes, srg.Links
	case e.Type.IsNode():
		return []int{e.Target}, nil
	default:
		return nil, []int{e.Target}
	}
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%d)@%.3f", e.Type, e.Target, e.Time)
}
