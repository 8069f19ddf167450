package algorithm

import (
	"testing"

	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortestPath(t *testing.T) {
	s := newRingState(t)
	plan := s.Plan()
	eff, err := s.FailureEffects(sim.NewSRGFailure(1, 0))
	require.NoError(t, err)
	spare := eff.LinkSpareCapacity

	assert.Equal(t, []int{7, 6}, shortestPath(plan, eff.Status, spare, 0, 2, 4, 1e-3, WeightHops))
	assert.Equal(t, []int{2}, shortestPath(plan, eff.Status, spare, 2, 3, 4, 1e-3, WeightLength))
	assert.Nil(t, shortestPath(plan, eff.Status, spare, 0, 2, 6.5, 1e-3, WeightHops), "L7 only has 6 spare")
	assert.Equal(t, []int{7, 6}, shortestPath(plan, eff.Status, spare, 0, 2, 6.0005, 1e-3, WeightHops), "within precision")
}

func TestCapacityHelpers(t *testing.T) {
	spare := []float64{5, 2, 8}

	assert.Equal(t, 2.0, bottleneck(spare, []int{0, 1, 2}))
	assert.Equal(t, 5.0, bottleneck(spare, []int{0}))

	consume(spare, []int{0, 2}, 1.5)
	assert.Equal(t, []float64{3.5, 2, 6.5}, spare)
}

func TestByPriority(t *testing.T) {
	s := newRingState(t)
	assert.Equal(t, []sim.RouteID{0, 1}, byPriority(s, []sim.RouteID{1, 0}))

	setRouteAttrs(t, s, 1, sim.Attributes{Priority: sim.IntAttr(3)})
	assert.Equal(t, []sim.RouteID{1, 0}, byPriority(s, []sim.RouteID{0, 1}))
}
