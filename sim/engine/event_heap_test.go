package engine

import (
	"testing"

	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHeap_TimeOrdering(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(sim.NewSRGFailure(100, 0))
	h.Schedule(sim.NewSRGFailure(50, 1))
	h.Schedule(sim.NewSRGFailure(150, 2))

	var times []float64
	for h.Len() > 0 {
		ev, ok := h.PopNext()
		require.True(t, ok)
		times = append(times, ev.Time)
	}
	assert.Equal(t, []float64{50, 100, 150}, times)
}

func TestEventHeap_FailuresBeforeRepairsAtSameTime(t *testing.T) {
	// GIVEN a repair scheduled before a failure at the same instant
	h := NewEventHeap()
	h.Schedule(sim.NewSRGReparation(10, 0))
	h.Schedule(sim.NewLinkFailure(10, 3))

	// THEN the failure comes out first
	first, _ := h.PopNext()
	assert.Equal(t, sim.EventLinkFailure, first.Type)
	second, _ := h.PopNext()
	assert.Equal(t, sim.EventSRGReparation, second.Type)
}

func TestEventHeap_SchedulingOrderBreaksTies(t *testing.T) {
	h := NewEventHeap()
	for srg := range 5 {
		h.Schedule(sim.NewSRGFailure(1, srg))
	}
	for want := range 5 {
		ev, _ := h.PopNext()
		assert.Equal(t, want, ev.Target)
	}
}

func TestEventHeap_Empty(t *testing.T) {
	h := NewEventHeap()
	_, ok := h.Peek()
	assert.False(t, ok)
	_, ok = h.PopNext()
	assert.False(t, ok)

	h.Schedule(sim.NewSRGFailure(3, 1))
	ev, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, 3.0, ev.Time)
	assert.Equal(t, 1, h.Len(), "peek does not remove")
}
