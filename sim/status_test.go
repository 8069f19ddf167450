package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_ElementOverridesSRG(t *testing.T) {
	s := newRingState(t)

	// GIVEN the duct SRG holding links 0 and 4 is down
	require.NoError(t, s.Update(NewSRGFailure(1, 2), nil))
	assert.Equal(t, []int{0, 4}, s.Status().DownLinks())
	assert.Equal(t, []int{2}, s.DownSRGs())

	// WHEN link 0 alone is repaired THEN it comes up while the SRG stays down
	require.NoError(t, s.Update(NewLinkReparation(2, 0), nil))
	assert.Equal(t, []int{4}, s.Status().DownLinks())
	assert.Equal(t, []int{2}, s.DownSRGs())

	// WHEN the SRG is repaired THEN everything is up and overrides are gone
	require.NoError(t, s.Update(NewSRGReparation(3, 2), nil))
	assert.Empty(t, s.Status().DownLinks())
	assert.Empty(t, s.DownSRGs())

	// WHEN the SRG fails again THEN link 0 goes down with it
	require.NoError(t, s.Update(NewSRGFailure(4, 2), nil))
	assert.Equal(t, []int{0, 4}, s.Status().DownLinks())
}

func TestStatus_SRGEventClearsNodeOverride(t *testing.T) {
	s := newRingState(t)

	require.NoError(t, s.Update(NewNodeReparation(1, 1), nil))
	assert.False(t, s.IsNodeDown(1))

	require.NoError(t, s.Update(NewSRGFailure(2, 1), nil))
	assert.True(t, s.IsNodeDown(1), "SRG failure supersedes the earlier node repair")

	require.NoError(t, s.Update(NewNodeReparation(3, 1), nil))
	assert.False(t, s.IsNodeDown(1))
	assert.Equal(t, []int{1}, s.DownSRGs())
}

func TestStatus_ElementFailureOutsideAnySRG(t *testing.T) {
	s := newRingState(t)

	require.NoError(t, s.Update(NewLinkFailure(1, 3), nil))
	require.NoError(t, s.Update(NewNodeFailure(1, 2), nil))
	assert.True(t, s.IsLinkDown(3))
	assert.True(t, s.IsNodeDown(2))
	assert.Empty(t, s.DownSRGs())

	st := s.Status()
	assert.False(t, st.LinkDown(1), "link flag only covers the link itself")
	assert.False(t, st.LinkUsable(s.Plan(), 1), "but its end node is down")
	assert.True(t, st.PathDown(s.Plan(), []int{0, 1}))
	assert.False(t, st.PathDown(s.Plan(), []int{7}))

	require.NoError(t, s.Update(NewLinkReparation(2, 3), nil))
	require.NoError(t, s.Update(NewNodeReparation(2, 2), nil))
	assert.Empty(t, s.Status().DownLinks())
	assert.Empty(t, s.Status().DownNodes())
}

func TestIsSegmentDown(t *testing.T) {
	s := newRingState(t)

	down, err := s.IsSegmentDown(0)
	require.NoError(t, err)
	assert.False(t, down)

	require.NoError(t, s.Update(NewNodeFailure(1, 3), nil))
	down, err = s.IsSegmentDown(0)
	require.NoError(t, err)
	assert.True(t, down)

	_, err = s.IsSegmentDown(4)
	assert.Error(t, err)
}

func TestStatus_OutOfRangeIsUp(t *testing.T) {
	st := newRingState(t).Status()
	assert.False(t, st.NodeDown(-1))
	assert.False(t, st.LinkDown(100))
}
