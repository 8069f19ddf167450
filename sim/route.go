package sim

import (
	"fmt"
	"slices"
)

// RouteID identifies a route. Ids are issued in increasing order and never reused.
type RouteID int64

// SegmentID identifies a protection segment. Ids are issued in increasing order and never reused.
type SegmentID int64

// Route is the traffic assignment of one demand. The planned path and
// traffic are fixed at creation; the current path and traffic follow the
// failures and the provisioning actions. Routes are only mutated by the
// NetState that owns them, so accessors hand out copies.
type Route struct {
	id             RouteID
	demand         int
	plannedPath    []int
	plannedTraffic float64
	currentPath    []PathStep
	currentTraffic float64
	backups        []SegmentID
	attrs          Attributes
}

// ID returns the route id.
func (r *Route) ID() RouteID { return r.id }

// Demand returns the demand index the route carries traffic for.
func (r *Route) Demand() int { return r.demand }

// PlannedPath returns the planned primary link sequence.
func (r *Route) PlannedPath() []int { return slices.Clone(r.plannedPath) }

// PlannedTraffic returns the planned carried traffic.
func (r *Route) PlannedTraffic() float64 { return r.plannedTraffic }

// CurrentPath returns the current path steps.
func (r *Route) CurrentPath() []PathStep { return slices.Clone(r.currentPath) }

// CurrentTraffic returns the current carried traffic.
func (r *Route) CurrentTraffic() float64 { return r.currentTraffic }

// BackupSegments returns the ids of the segments eligible as backups, in
// the order they were attached.
func (r *Route) BackupSegments() []SegmentID { return slices.Clone(r.backups) }

// HasBackup reports whether segment id is in the backup list.
func (r *Route) HasBackup(id SegmentID) bool { return slices.Contains(r.backups, id) }

// Attributes returns the route-local attributes (without network fallback).
func (r *Route) Attributes() Attributes { return r.attrs.clone() }

// IsOnPlannedPath reports whether the current path is the planned one.
func (r *Route) IsOnPlannedPath() bool { return pathEqualsLinks(r.currentPath, r.plannedPath) }

func (r *Route) String() string {
	return fmt.Sprintf("Route: (ID: %d, Demand: %d, Path: %s, Traffic: %g/%g)",
		r.id, r.demand, FormatPath(r.currentPath), r.currentTraffic, r.plannedTraffic)
}

func (r *Route) clone() *Route {
	return &Route{
		id:             r.id,
		demand:         r.demand,
		plannedPath:    slices.Clone(r.plannedPath),
		plannedTraffic: r.plannedTraffic,
		currentPath:    slices.Clone(r.currentPath),
		currentTraffic: r.currentTraffic,
		backups:        slices.Clone(r.backups),
		attrs:          r.attrs.clone(),
	}
}

// Segment is a reusable protection path. A zero reserved bandwidth means a
// shared (restoration style) segment whose usage is evaluated on demand.
type Segment struct {
	id       SegmentID
	path     []int
	reserved float64
	attrs    Attributes
}

// ID returns the segment id.
func (s *Segment) ID() SegmentID { return s.id }

// Path returns the segment's link sequence.
func (s *Segment) Path() []int { return slices.Clone(s.path) }

// ReservedBandwidth returns the dedicated capacity set aside for the segment.
func (s *Segment) ReservedBandwidth() float64 { return s.reserved }

// IsDedicated reports whether the segment reserves capacity.
func (s *Segment) IsDedicated() bool { return s.reserved > 0 }

// Attributes returns the segment-local attributes (without network fallback).
func (s *Segment) Attributes() Attributes { return s.attrs.clone() }

func (s *Segment) String() string {
	return fmt.Sprintf("Segment: (ID: %d, Path: %v, Reserved: %g)", s.id, s.path, s.reserved)
}

func (s *Segment) clone() *Segment {
	return &Segment{
		id:       s.id,
		path:     slices.Clone(s.path),
		reserved: s.reserved,
		attrs:    s.attrs.clone(),
	}
}
