package sim

// Reader is the read-only surface of a network state. Both *NetState and
// View implement it; generators and provisioning algorithms receive a Reader
// so they cannot mutate the state they inspect.
type Reader interface {
	Plan() *NetPlan
	Config() Config

	Route(id RouteID) (*Route, bool)
	Segment(id SegmentID) (*Segment, bool)
	Routes() []*Route
	Segments() []*Segment
	NumRoutes() int
	NumSegments() int
	NextRouteID() RouteID
	NextSegmentID() SegmentID

	Status() Status
	DownSRGs() []int
	IsNodeDown(n int) bool
	IsLinkDown(l int) bool
	IsSegmentDown(id SegmentID) (bool, error)

	ExpandPath(steps []PathStep) ([]int, error)
	ExpandedCurrentPath(id RouteID) ([]int, error)
	EffectiveRouteAttributes(id RouteID) (Attributes, error)
	EffectiveSegmentAttributes(id SegmentID) (Attributes, error)

	LinkCarriedTraffic(l int) float64
	LinkReservedBandwidth(l int) float64
	LinkOccupiedCapacity(l int) float64
	OversubscribedLinks() []int
	DemandCarriedTraffic(demand int) float64
	DemandBlockedTraffic(demand int) float64
	TotalCarriedTraffic() float64
	TotalOfferedTraffic() float64
	NodeTraffic(n int, planned bool) NodeTraffic
	RoutesOfDemand(demand int) []RouteID
	RoutesTraversingLink(l int) []RouteID
	SegmentsTraversingLink(l int) []SegmentID
	RoutesAffectedBySRG(srg int) ([]RouteID, error)
	SegmentsAffectedBySRG(srg int) ([]SegmentID, error)

	FailureEffects(ev Event) (FailureEffects, error)
	ReparationEffects(ev Event) (ReparationEffects, error)
	FirstAvailableNodeDownstream(id RouteID, st Status) (int, error)
	FirstAvailableNodeUpstream(id RouteID, st Status) (int, error)
	MergedRoute(base, partial []int) ([]int, error)
	MergedBackupRoute(base []PathStep, id SegmentID) ([]PathStep, error)

	CheckValidity(tolerance float64, allowOversubscription, allowExcessTraffic bool) error
	ConvertToNetPlan() *NetPlan
}

var (
	_ Reader = (*NetState)(nil)
	_ Reader = View{}
)
