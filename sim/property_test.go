package sim

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestNetStateInvariants checks properties that must hold after any
// sequence of valid events and actions on the ring fixture.
func TestNetStateInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	// Property 1: committed capacity never drops below carried traffic
	properties.Property("occupation covers carried traffic", prop.ForAll(
		func(t0, t1 float64, viaSegment bool) bool {
			s := newRingState(t)
			path := LinkSteps([]int{0, 1})
			if viaSegment {
				path = []PathStep{SegmentStep(0)}
			}
			if err := s.Apply(NewModifyRoutePath(0, t0, path)); err != nil {
				return false
			}
			if err := s.Apply(NewModifyRouteTraffic(1, t1)); err != nil {
				return false
			}
			for l := range s.Plan().Links {
				if s.LinkOccupiedCapacity(l) < s.LinkCarriedTraffic(l)-1e-9 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 20),
		gen.Float64Range(0, 20),
		gen.Bool(),
	))

	// Property 2: a failure followed by its reparation leaves everything up
	properties.Property("srg failure then repair restores status", prop.ForAll(
		func(srg int, elem int) bool {
			s := newRingState(t)
			steps := []Event{
				NewLinkFailure(1, elem%8),
				NewSRGFailure(2, srg),
				NewSRGReparation(3, srg),
				NewLinkReparation(4, elem%8),
			}
			for _, ev := range steps {
				if err := s.Update(ev, nil); err != nil {
					return false
				}
			}
			st := s.Status()
			return len(st.DownLinks()) == 0 && len(st.DownNodes()) == 0 && len(s.DownSRGs()) == 0
		},
		gen.IntRange(0, 2),
		gen.IntRange(0, 7),
	))

	// Property 3: no failed element is on a route carrying traffic
	properties.Property("failed routes carry nothing", prop.ForAll(
		func(srg int) bool {
			s := newRingState(t)
			if err := s.Update(NewSRGFailure(1, srg), nil); err != nil {
				return false
			}
			st := s.Status()
			for _, r := range s.Routes() {
				links, err := s.ExpandedCurrentPath(r.ID())
				if err != nil {
					return false
				}
				if st.PathDown(s.Plan(), links) && r.CurrentTraffic() != 0 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 2),
	))

	// Property 4: applying the same failure again changes no route
	properties.Property("failure reset is idempotent", prop.ForAll(
		func(srg int) bool {
			s := newRingState(t)
			if err := s.Update(NewSRGFailure(1, srg), nil); err != nil {
				return false
			}
			first := s.Copy()
			if err := s.Update(NewSRGFailure(2, srg), nil); err != nil {
				return false
			}
			for _, want := range first.Routes() {
				got, ok := s.Route(want.ID())
				if !ok || !slices.Equal(got.CurrentPath(), want.CurrentPath()) || got.CurrentTraffic() != want.CurrentTraffic() {
					return false
				}
			}
			return s.NumRoutes() == first.NumRoutes()
		},
		gen.IntRange(0, 2),
	))

	// Property 5: ids keep growing across adds and removes
	properties.Property("route ids are never reused", prop.ForAll(
		func(ops []bool) bool {
			s := newRingState(t)
			last := s.NextRouteID()
			for _, add := range ops {
				if add {
					if err := s.Apply(NewAddRoute(1, 0, []int{1, 2})); err != nil {
						return false
					}
				} else if s.NumRoutes() > 0 {
					if err := s.Apply(RemoveRoute{Route: s.Routes()[0].ID()}); err != nil {
						return false
					}
				}
				next := s.NextRouteID()
				if next < last {
					return false
				}
				last = next
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	// Property 6: what-if evaluation on a copy leaves the original alone
	properties.Property("copy is independent", prop.ForAll(
		func(traffic float64, link int) bool {
			s := newRingState(t)
			c := s.Copy()
			if err := c.Update(NewLinkFailure(1, link), []Action{NewAddRoute(0, traffic, []int{7, 6})}); err != nil {
				return false
			}
			return s.NumRoutes() == 2 && !s.IsLinkDown(link) && s.TotalCarriedTraffic() == 7
		},
		gen.Float64Range(0, 5),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}
