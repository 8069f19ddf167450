package sim

import (
	"fmt"
	"slices"
)

// ActionKind names a provisioning action kind.
type ActionKind string

const (
	KindAddRoute                        ActionKind = "ADD_ROUTE"
	KindModifyRoute                     ActionKind = "MODIFY_ROUTE"
	KindRemoveRoute                     ActionKind = "REMOVE_ROUTE"
	KindRemoveAllRoutes                 ActionKind = "REMOVE_ALL_ROUTES"
	KindAddProtectionSegment            ActionKind = "ADD_PROTECTION_SEGMENT"
	KindAddSegmentToBackupList          ActionKind = "ADD_SEGMENT_TO_ROUTE_BACKUP_LIST"
	KindRemoveSegmentFromBackupList     ActionKind = "REMOVE_SEGMENT_FROM_ROUTE_BACKUP_LIST"
	KindRemoveAllSegmentsFromBackupList ActionKind = "REMOVE_ALL_SEGMENTS_FROM_ROUTE_BACKUP_LIST"
	KindRemoveProtectionSegment         ActionKind = "REMOVE_PROTECTION_SEGMENT"
	KindRemoveAllProtectionSegments     ActionKind = "REMOVE_ALL_PROTECTION_SEGMENTS"
)

// Unchanged is the ModifyRoute.Traffic sentinel meaning "keep the current traffic".
const Unchanged = -1.0

// Action is a provisioning command produced by an algorithm and applied
// atomically by NetState.Update. The set of implementations is closed.
type Action interface {
	Kind() ActionKind
	String() string
	isAction()
}

// AddRoute creates a route for Demand. Path becomes both the planned path
// (expanded to links) and the current path.
type AddRoute struct {
	Demand     int
	Traffic    float64
	Path       []PathStep
	Backups    []SegmentID
	Attributes Attributes
}

// ModifyRoute changes the traffic, the current path and/or the attributes
// of a route. Traffic == Unchanged, a nil Path and nil Attributes leave the
// corresponding field untouched.
type ModifyRoute struct {
	Route      RouteID
	Traffic    float64
	Path       []PathStep
	Attributes *Attributes
}

// RemoveRoute deletes one route.
type RemoveRoute struct{ Route RouteID }

// RemoveAllRoutes deletes every route.
type RemoveAllRoutes struct{}

// AddProtectionSegment creates a protection segment.
type AddProtectionSegment struct {
	ReservedBandwidth float64
	Path              []int
	Attributes        Attributes
}

// AddSegmentToBackupList makes Segment eligible as a backup of Route.
type AddSegmentToBackupList struct {
	Segment SegmentID
	Route   RouteID
}

// RemoveSegmentFromBackupList drops Segment from Route's backup list.
type RemoveSegmentFromBackupList struct {
	Segment SegmentID
	Route   RouteID
}

// RemoveAllSegmentsFromBackupList empties Route's backup list.
type RemoveAllSegmentsFromBackupList struct{ Route RouteID }

// RemoveProtectionSegment deletes one segment.
type RemoveProtectionSegment struct{ Segment SegmentID }

// RemoveAllProtectionSegments deletes every segment.
type RemoveAllProtectionSegments struct{}

// NewAddRoute builds an AddRoute over a plain link path.
func NewAddRoute(demand int, traffic float64, links []int, backups ...SegmentID) AddRoute {
	return AddRoute{Demand: demand, Traffic: traffic, Path: LinkSteps(links), Backups: backups}
}

// NewModifyRouteTraffic builds a ModifyRoute that only changes the traffic.
func NewModifyRouteTraffic(id RouteID, traffic float64) ModifyRoute {
	return ModifyRoute{Route: id, Traffic: traffic}
}

// NewModifyRoutePath builds a ModifyRoute that changes path and traffic.
// Pass Unchanged as traffic to keep the current volume.
func NewModifyRoutePath(id RouteID, traffic float64, path []PathStep) ModifyRoute {
	return ModifyRoute{Route: id, Traffic: traffic, Path: path}
}

// NewAddProtectionSegment builds an AddProtectionSegment.
func NewAddProtectionSegment(reserved float64, links []int) AddProtectionSegment {
	return AddProtectionSegment{ReservedBandwidth: reserved, Path: slices.Clone(links)}
}

func (AddRoute) Kind() ActionKind                        { return KindAddRoute }
func (ModifyRoute) Kind() ActionKind                     { return KindModifyRoute }
func (RemoveRoute) Kind() ActionKind                     { return KindRemoveRoute }
func (RemoveAllRoutes) Kind() ActionKind                 { return KindRemoveAllRoutes }
func (AddProtectionSegment) Kind() ActionKind            { return KindAddProtectionSegment }
func (AddSegmentToBackupList) Kind() ActionKind          { return KindAddSegmentToBackupList }
func (RemoveSegmentFromBackupList) Kind() ActionKind     { return KindRemoveSegmentFromBackupList }
func (RemoveAllSegmentsFromBackupList) Kind() ActionKind { return KindRemoveAllSegmentsFromBackupList }
func (RemoveProtectionSegment) Kind() ActionKind         { return KindRemoveProtectionSegment }
func (RemoveAllProtectionSegments) Kind() ActionKind     { return KindRemoveAllProtectionSegments }

func (AddRoute) isAction()                        {}
func (ModifyRoute) isAction()                     {}
func (RemoveRoute) isAction()                     {}
func (RemoveAllRoutes) isAction()                 {}
func (AddProtectionSegment) isAction()            {}
func (AddSegmentToBackupList) isAction()          {}
func (RemoveSegmentFromBackupList) isAction()     {}
func (RemoveAllSegmentsFromBackupList) isAction() {}
func (RemoveProtectionSegment) isAction()         {}
func (RemoveAllProtectionSegments) isAction()     {}

func (a AddRoute) String() string {
	return fmt.Sprintf("%s(demand=%d, traffic=%g, path=%s, backups=%v)", a.Kind(), a.Demand, a.Traffic, FormatPath(a.Path), a.Backups)
}

func (a ModifyRoute) String() string {
	traffic := "unchanged"
	if a.Traffic != Unchanged {
		traffic = fmt.Sprintf("%g", a.Traffic)
	}
	path := "unchanged"
	if a.Path != nil {
		path = FormatPath(a.Path)
	}
	return fmt.Sprintf("%s(route=%d, traffic=%s, path=%s)", a.Kind(), a.Route, traffic, path)
}

func (a RemoveRoute) String() string { return fmt.Sprintf("%s(route=%d)", a.Kind(), a.Route) }

func (a RemoveAllRoutes) String() string { return string(a.Kind()) }

func (a AddProtectionSegment) String() string {
	return fmt.Sprintf("%s(reserved=%g, path=%v)", a.Kind(), a.ReservedBandwidth, a.Path)
}

func (a AddSegmentToBackupList) String() string {
	return fmt.Sprintf("%s(segment=%d, route=%d)", a.Kind(), a.Segment, a.Route)
}

func (a RemoveSegmentFromBackupList) String() string {
	return fmt.Sprintf("%s(segment=%d, route=%d)", a.Kind(), a.Segment, a.Route)
}

func (a RemoveAllSegmentsFromBackupList) String() string {
	return fmt.Sprintf("%s(route=%d)", a.Kind(), a.Route)
}

func (a RemoveProtectionSegment) String() string {
	return fmt.Sprintf("%s(segment=%d)", a.Kind(), a.Segment)
}

func (a RemoveAllProtectionSegments) String() string { return string(a.Kind()) }
