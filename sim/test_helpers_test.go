package sim

import (
	"testing"

	"github.com/netplan-sim/resilience-sim/sim/internal/testutil"
	"github.com/stretchr/testify/require"
)

func mustParsePlan(t *testing.T, src string) *NetPlan {
	t.Helper()
	plan, err := ParseNetPlan([]byte(src))
	require.NoError(t, err)
	return plan
}

func newTestState(t *testing.T, src string) *NetState {
	t.Helper()
	s, err := NewNetState(mustParsePlan(t, src), DefaultConfig())
	require.NoError(t, err)
	return s
}

func newRingState(t *testing.T) *NetState    { return newTestState(t, testutil.RingPlanYAML) }
func newTwoNodeState(t *testing.T) *NetState { return newTestState(t, testutil.TwoNodePlanYAML) }

func mustRoute(t *testing.T, r Reader, id RouteID) *Route {
	t.Helper()
	route, ok := r.Route(id)
	require.True(t, ok, "route %d should exist", id)
	return route
}
