package sim

import (
	"slices"

	"github.com/sirupsen/logrus"
)

// netData is the storage shared by a NetState and its views. Routes and
// segments live in dense tables indexed by id; removed entries stay nil so
// ids are never reused and the next id is the table length.
type netData struct {
	plan     *NetPlan
	cfg      Config
	failures failureState
	status   Status
	routes   []*Route
	segments []*Segment
}

// NetState is the writable resilience network state: the live routes and
// protection segments plus the failed element bookkeeping. A NetState has a
// single writer; UnmodifiableView hands out read-only access to the same
// storage and Copy branches an independent state.
//
// Thread-safety: NOT thread-safe. Views may be read concurrently only while
// no Update or Reset is in progress.
type NetState struct {
	*netData
}

// View is a read-only facade over a NetState's storage. It has no mutating
// methods; reads observe the owner's latest state.
type View struct {
	*netData
}

// NewNetState builds a state from plan and resets it to the plan's initial
// route and segment assignment. The plan is shared, never mutated.
func NewNetState(plan *NetPlan, cfg Config) (*NetState, error) {
	s := &NetState{netData: &netData{plan: plan, cfg: cfg}}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset rebuilds routes and segments from the plan: plan segment i becomes
// SegmentID(i) and plan route j becomes RouteID(j). Id counters and all
// failure bookkeeping are cleared. An inconsistent plan leaves the state
// untouched and returns an error wrapping ErrInvalidOperation.
func (s *NetState) Reset() error {
	plan := s.plan
	if err := plan.Validate(); err != nil {
		return invalidOpf("inconsistent plan: %v", err)
	}
	segments := make([]*Segment, len(plan.Segments))
	for i, ps := range plan.Segments {
		if err := plan.CheckContinuous(ps.Path); err != nil {
			return invalidOpf("inconsistent plan: segment %d: %v", i, err)
		}
		if !validTraffic(ps.ReservedBandwidth) {
			return invalidOpf("inconsistent plan: segment %d: reserved bandwidth must be non-negative, got %f", i, ps.ReservedBandwidth)
		}
		segments[i] = &Segment{
			id:       SegmentID(i),
			path:     slices.Clone(ps.Path),
			reserved: ps.ReservedBandwidth,
			attrs:    ps.Attributes.clone(),
		}
	}
	routes := make([]*Route, len(plan.Routes))
	for j, pr := range plan.Routes {
		if err := plan.CheckDemandPath(pr.Demand, pr.Path); err != nil {
			return invalidOpf("inconsistent plan: route %d: %v", j, err)
		}
		if !validTraffic(pr.CarriedTraffic) {
			return invalidOpf("inconsistent plan: route %d: carried traffic must be non-negative, got %f", j, pr.CarriedTraffic)
		}
		r := &Route{
			id:             RouteID(j),
			demand:         pr.Demand,
			plannedPath:    slices.Clone(pr.Path),
			plannedTraffic: pr.CarriedTraffic,
			currentPath:    LinkSteps(pr.Path),
			currentTraffic: pr.CarriedTraffic,
			attrs:          pr.Attributes.clone(),
		}
		for _, idx := range pr.BackupSegments {
			if idx < 0 || idx >= len(segments) {
				return invalidOpf("inconsistent plan: route %d: unknown backup segment %d", j, idx)
			}
			if err := checkMergeable(plan, r.plannedPath, segments[idx]); err != nil {
				return invalidOpf("inconsistent plan: route %d: %v", j, err)
			}
			if !r.HasBackup(SegmentID(idx)) {
				r.backups = append(r.backups, SegmentID(idx))
			}
		}
		routes[j] = r
	}

	s.routes = routes
	s.segments = segments
	s.failures = newFailureState()
	s.status = s.failures.status(plan)
	logrus.Debugf("state reset: %d routes, %d segments", len(routes), len(segments))
	return nil
}

// Copy returns a deep copy with independent route, segment and failure
// storage. The plan is shared.
func (s *NetState) Copy() *NetState {
	d := &netData{
		plan:     s.plan,
		cfg:      s.cfg,
		failures: s.failures.clone(),
		status:   s.status.clone(),
		routes:   make([]*Route, len(s.routes)),
		segments: make([]*Segment, len(s.segments)),
	}
	for i, r := range s.routes {
		if r != nil {
			d.routes[i] = r.clone()
		}
	}
	for i, sg := range s.segments {
		if sg != nil {
			d.segments[i] = sg.clone()
		}
	}
	return &NetState{netData: d}
}

// UnmodifiableView returns a read-only view over the same storage. No data
// is copied.
func (s *NetState) UnmodifiableView() View {
	return View{netData: s.netData}
}

// Plan returns the static plan the state was built from. Callers must not modify it.
func (d *netData) Plan() *NetPlan { return d.plan }

// Config returns the kernel configuration.
func (d *netData) Config() Config { return d.cfg }

// Route returns the live route with the given id.
func (d *netData) Route(id RouteID) (*Route, bool) {
	if id < 0 || int(id) >= len(d.routes) || d.routes[id] == nil {
		return nil, false
	}
	return d.routes[id], true
}

// Segment returns the live protection segment with the given id.
func (d *netData) Segment(id SegmentID) (*Segment, bool) {
	if id < 0 || int(id) >= len(d.segments) || d.segments[id] == nil {
		return nil, false
	}
	return d.segments[id], true
}

// Routes returns the live routes in increasing id order.
func (d *netData) Routes() []*Route {
	out := make([]*Route, 0, len(d.routes))
	for _, r := range d.routes {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Segments returns the live protection segments in increasing id order.
func (d *netData) Segments() []*Segment {
	out := make([]*Segment, 0, len(d.segments))
	for _, sg := range d.segments {
		if sg != nil {
			out = append(out, sg)
		}
	}
	return out
}

// NumRoutes returns the number of live routes.
func (d *netData) NumRoutes() int { return countLive(d.routes) }

// NumSegments returns the number of live protection segments.
func (d *netData) NumSegments() int { return countLive(d.segments) }

// NextRouteID returns the id the next AddRoute will receive.
func (d *netData) NextRouteID() RouteID { return RouteID(len(d.routes)) }

// NextSegmentID returns the id the next AddProtectionSegment will receive.
func (d *netData) NextSegmentID() SegmentID { return SegmentID(len(d.segments)) }

// Status returns a snapshot of the current node and link status.
func (d *netData) Status() Status { return d.status.clone() }

// DownSRGs returns the SRGs currently marked down, in increasing order.
func (d *netData) DownSRGs() []int { return d.failures.downSRGs.sorted() }

// IsNodeDown reports whether node n is currently down.
func (d *netData) IsNodeDown(n int) bool { return d.status.NodeDown(n) }

// IsLinkDown reports whether link l is currently down.
func (d *netData) IsLinkDown(l int) bool { return d.status.LinkDown(l) }

// IsSegmentDown reports whether any node or link of segment id is down.
func (d *netData) IsSegmentDown(id SegmentID) (bool, error) {
	sg, ok := d.Segment(id)
	if !ok {
		return false, invalidOpf("unknown segment %d", id)
	}
	return d.status.PathDown(d.plan, sg.path), nil
}

// ExpandPath replaces every segment step of steps by the segment's links.
func (d *netData) ExpandPath(steps []PathStep) ([]int, error) {
	links := make([]int, 0, len(steps))
	for i, st := range steps {
		if l, ok := st.Link(); ok {
			if !d.plan.validLink(l) {
				return nil, invalidOpf("unknown link %d at path position %d", l, i)
			}
			links = append(links, l)
			continue
		}
		id, _ := st.Segment()
		sg, ok := d.Segment(id)
		if !ok {
			return nil, invalidOpf("unknown segment %d at path position %d", id, i)
		}
		links = append(links, sg.path...)
	}
	return links, nil
}

// ExpandedCurrentPath returns the current path of route id as links.
func (d *netData) ExpandedCurrentPath(id RouteID) ([]int, error) {
	r, ok := d.Route(id)
	if !ok {
		return nil, invalidOpf("unknown route %d", id)
	}
	return d.expand(r.currentPath), nil
}

// EffectiveRouteAttributes returns the attributes of route id with the
// plan's network-wide attributes as fallback.
func (d *netData) EffectiveRouteAttributes(id RouteID) (Attributes, error) {
	r, ok := d.Route(id)
	if !ok {
		return Attributes{}, invalidOpf("unknown route %d", id)
	}
	return r.attrs.WithFallback(d.plan.Attributes), nil
}

// EffectiveSegmentAttributes returns the attributes of segment id with the
// plan's network-wide attributes as fallback.
func (d *netData) EffectiveSegmentAttributes(id SegmentID) (Attributes, error) {
	sg, ok := d.Segment(id)
	if !ok {
		return Attributes{}, invalidOpf("unknown segment %d", id)
	}
	return sg.attrs.WithFallback(d.plan.Attributes), nil
}

// expand is ExpandPath for paths already accepted by the state.
func (d *netData) expand(steps []PathStep) []int {
	links, err := d.ExpandPath(steps)
	if err != nil {
		panic("sim: stored path references a removed element: " + err.Error())
	}
	return links
}

// segmentInUse reports whether any live route's current path embeds id.
func (d *netData) segmentInUse(id SegmentID) (RouteID, bool) {
	for _, r := range d.routes {
		if r != nil && PathUsesSegment(r.currentPath, id) {
			return r.id, true
		}
	}
	return 0, false
}

// checkMergeable enforces the head/tail rule: the segment's first node must
// appear in the planned node sequence and its last node at the same
// position or later.
func checkMergeable(plan *NetPlan, planned []int, sg *Segment) error {
	nodes := plan.NodeSequence(planned)
	head := plan.Links[sg.path[0]].Origin
	tail := plan.Links[sg.path[len(sg.path)-1]].Destination
	i := slices.Index(nodes, head)
	j := lastIndex(nodes, tail)
	switch {
	case i < 0:
		return invalidOpf("segment %d starts at node %d, which is not on the planned path", sg.id, head)
	case j < 0:
		return invalidOpf("segment %d ends at node %d, which is not on the planned path", sg.id, tail)
	case j < i:
		return invalidOpf("segment %d would merge upstream (head at position %d, tail at position %d)", sg.id, i, j)
	}
	return nil
}

func lastIndex(s []int, v int) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == v {
			return i
		}
	}
	return -1
}

func countLive[T any](table []*T) int {
	n := 0
	for _, e := range table {
		if e != nil {
			n++
		}
	}
	return n
}
