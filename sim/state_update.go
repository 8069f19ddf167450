package sim

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// Update is the transition function. It records ev in the failure
// bookkeeping, resets every route whose current path now touches a down
// element to its planned path with zero traffic, then applies actions in
// order.
//
// The batch is not transactional: the first invalid action stops the batch
// and an *ActionError wrapping ErrInvalidOperation is returned, while the
// actions before it stay applied. An invalid event is rejected before anything changes.
func (s *NetState) Update(ev Event, actions []Action) error {
	if err := ev.Validate(s.plan); err != nil {
		return err
	}
	s.failures.apply(s.plan, ev)
	s.status = s.failures.status(s.plan)

	reset := s.resetFailedRoutes()
	logrus.Debugf("[t=%010.3f] %s: %d routes reset to planned path", ev.Time, ev, reset)

	for i, a := range actions {
		if err := s.apply(a); err != nil {
			return &ActionError{Index: i, Total: len(actions), Kind: kindOf(a), Err: err}
		}
		logrus.Debugf("[t=%010.3f] applied %s", ev.Time, a)
	}
	return nil
}

// resetFailedRoutes puts every route touching a down element back on its
// planned path with zero traffic. Returns the number of routes touched.
func (s *NetState) resetFailedRoutes() int {
	n := 0
	for _, r := range s.routes {
		if r == nil {
			continue
		}
		if !s.status.PathDown(s.plan, s.expand(r.currentPath)) {
			continue
		}
		r.currentPath = LinkSteps(r.plannedPath)
		r.currentTraffic = 0
		n++
	}
	return n
}

// Apply applies a single action outside of an event step. It validates
// exactly as Update does.
func (s *NetState) Apply(a Action) error {
	return s.apply(a)
}

func (s *NetState) apply(a Action) error {
	switch a := a.(type) {
	case AddRoute:
		return s.addRoute(a)
	case ModifyRoute:
		return s.modifyRoute(a)
	case RemoveRoute:
		if _, ok := s.Route(a.Route); !ok {
			return invalidOpf("unknown route %d", a.Route)
		}
		s.routes[a.Route] = nil
		return nil
	case RemoveAllRoutes:
		clear(s.routes)
		return nil
	case AddProtectionSegment:
		return s.addSegment(a)
	case AddSegmentToBackupList:
		return s.addBackup(a)
	case RemoveSegmentFromBackupList:
		return s.removeBackup(a)
	case RemoveAllSegmentsFromBackupList:
		return s.removeAllBackups(a)
	case RemoveProtectionSegment:
		return s.removeSegment(a)
	case RemoveAllProtectionSegments:
		return s.removeAllSegments()
	case nil:
		return invalidOpf("nil action")
	default:
		return invalidOpf("unsupported action %T", a)
	}
}

func (s *NetState) addRoute(a AddRoute) error {
	if !validTraffic(a.Traffic) {
		return invalidOpf("traffic must be a non-negative number, got %f", a.Traffic)
	}
	links, err := s.ExpandPath(a.Path)
	if err != nil {
		return err
	}
	if err := s.plan.CheckDemandPath(a.Demand, links); err != nil {
		return err
	}
	r := &Route{
		id:             s.NextRouteID(),
		demand:         a.Demand,
		plannedPath:    links,
		plannedTraffic: a.Traffic,
		currentPath:    slices.Clone(a.Path),
		currentTraffic: a.Traffic,
		attrs:          a.Attributes.clone(),
	}
	for _, id := range a.Backups {
		sg, ok := s.Segment(id)
		if !ok {
			return invalidOpf("unknown backup segment %d", id)
		}
		if err := checkMergeable(s.plan, r.plannedPath, sg); err != nil {
			return err
		}
		if !r.HasBackup(id) {
			r.backups = append(r.backups, id)
		}
	}
	s.routes = append(s.routes, r)
	return nil
}

func (s *NetState) modifyRoute(a ModifyRoute) error {
	r, ok := s.Route(a.Route)
	if !ok {
		return invalidOpf("unknown route %d", a.Route)
	}
	if a.Traffic != Unchanged && !validTraffic(a.Traffic) {
		return invalidOpf("route %d: traffic must be a non-negative number or Unchanged, got %f", a.Route, a.Traffic)
	}
	if a.Path != nil {
		links, err := s.ExpandPath(a.Path)
		if err != nil {
			return err
		}
		if err := s.plan.CheckDemandPath(r.demand, links); err != nil {
			return fmt.Errorf("route %d: %w", a.Route, err)
		}
		if s.status.PathDown(s.plan, links) {
			return invalidOpf("route %d: new path %s traverses a down node or link", a.Route, FormatPath(a.Path))
		}
	}

	if a.Traffic != Unchanged {
		r.currentTraffic = a.Traffic
	}
	if a.Path != nil {
		r.currentPath = slices.Clone(a.Path)
	}
	if a.Attributes != nil {
		r.attrs = a.Attributes.clone()
	}
	return nil
}

func (s *NetState) addSegment(a AddProtectionSegment) error {
	if !validTraffic(a.ReservedBandwidth) {
		return invalidOpf("reserved bandwidth must be a non-negative number, got %f", a.ReservedBandwidth)
	}
	if err := s.plan.CheckContinuous(a.Path); err != nil {
		return err
	}
	s.segments = append(s.segments, &Segment{
		id:       s.NextSegmentID(),
		path:     slices.Clone(a.Path),
		reserved: a.ReservedBandwidth,
		attrs:    a.Attributes.clone(),
	})
	return nil
}

func (s *NetState) addBackup(a AddSegmentToBackupList) error {
	r, ok := s.Route(a.Route)
	if !ok {
		return invalidOpf("unknown route %d", a.Route)
	}
	sg, ok := s.Segment(a.Segment)
	if !ok {
		return invalidOpf("unknown segment %d", a.Segment)
	}
	if err := checkMergeable(s.plan, r.plannedPath, sg); err != nil {
		return fmt.Errorf("route %d: %w", a.Route, err)
	}
	if !r.HasBackup(a.Segment) {
		r.backups = append(r.backups, a.Segment)
	}
	return nil
}

func (s *NetState) removeBackup(a RemoveSegmentFromBackupList) error {
	r, ok := s.Route(a.Route)
	if !ok {
		return invalidOpf("unknown route %d", a.Route)
	}
	if _, ok := s.Segment(a.Segment); !ok {
		return invalidOpf("unknown segment %d", a.Segment)
	}
	idx := slices.Index(r.backups, a.Segment)
	if idx < 0 {
		return invalidOpf("segment %d is not in the backup list of route %d", a.Segment, a.Route)
	}
	if PathUsesSegment(r.currentPath, a.Segment) {
		return invalidOpf("segment %d is in use by the current path of route %d", a.Segment, a.Route)
	}
	r.backups = slices.Delete(r.backups, idx, idx+1)
	return nil
}

func (s *NetState) removeAllBackups(a RemoveAllSegmentsFromBackupList) error {
	r, ok := s.Route(a.Route)
	if !ok {
		return invalidOpf("unknown route %d", a.Route)
	}
	for _, id := range r.backups {
		if PathUsesSegment(r.currentPath, id) {
			return invalidOpf("segment %d is in use by the current path of route %d", id, a.Route)
		}
	}
	r.backups = nil
	return nil
}

func (s *NetState) removeSegment(a RemoveProtectionSegment) error {
	if _, ok := s.Segment(a.Segment); !ok {
		return invalidOpf("unknown segment %d", a.Segment)
	}
	if user, used := s.segmentInUse(a.Segment); used {
		return invalidOpf("segment %d is in use by the current path of route %d", a.Segment, user)
	}
	for _, r := range s.routes {
		if r == nil {
			continue
		}
		if idx := slices.Index(r.backups, a.Segment); idx >= 0 {
			r.backups = slices.Delete(r.backups, idx, idx+1)
		}
	}
	s.segments[a.Segment] = nil
	return nil
}

func (s *NetState) removeAllSegments() error {
	for _, sg := range s.segments {
		if sg == nil {
			continue
		}
		if user, used := s.segmentInUse(sg.id); used {
			return invalidOpf("segment %d is in use by the current path of route %d", sg.id, user)
		}
	}
	clear(s.segments)
	for _, r := range s.routes {
		if r != nil {
			r.backups = nil
		}
	}
	return nil
}

func kindOf(a Action) ActionKind {
	if a == nil {
		return ""
	}
	return a.Kind()
}
