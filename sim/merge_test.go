package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstAvailableNode(t *testing.T) {
	s := newRingState(t)

	tests := []struct {
		name     string
		ev       Event
		route    RouteID
		down, up int
	}{
		{"middle link down", NewLinkFailure(1, 1), 0, 1, 2},
		{"first link down", NewLinkFailure(1, 0), 0, 0, 1},
		{"transit node down", NewNodeFailure(1, 1), 0, 0, 2},
		{"ingress down", NewNodeFailure(1, 0), 0, NoNode, 1},
		{"egress down", NewNodeFailure(1, 3), 1, 2, NoNode},
		{"nothing on the path down", NewLinkFailure(1, 5), 0, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eff, err := s.FailureEffects(tt.ev)
			require.NoError(t, err)

			down, err := s.FirstAvailableNodeDownstream(tt.route, eff.Status)
			require.NoError(t, err)
			assert.Equal(t, tt.down, down)

			up, err := s.FirstAvailableNodeUpstream(tt.route, eff.Status)
			require.NoError(t, err)
			assert.Equal(t, tt.up, up)
		})
	}

	_, err := s.FirstAvailableNodeDownstream(9, s.Status())
	assert.True(t, errors.Is(err, ErrInvalidOperation))
	_, err = s.FirstAvailableNodeUpstream(9, s.Status())
	assert.True(t, errors.Is(err, ErrInvalidOperation))
}

func TestMergedRoute(t *testing.T) {
	s := newRingState(t)

	tests := []struct {
		name    string
		base    []int
		partial []int
		want    []int
	}{
		{"replace whole path", []int{0, 1}, []int{7, 6}, []int{7, 6}},
		{"replace tail", []int{0, 1}, []int{4, 7, 6}, []int{0, 4, 7, 6}},
		{"replace head", []int{1, 2}, []int{4, 7}, []int{4, 7}},
		{"insert detour at a node", []int{0, 1}, []int{4, 0}, []int{0, 4, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.MergedRoute(tt.base, tt.partial)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	invalid := []struct {
		name          string
		base, partial []int
	}{
		{"upstream splice", []int{0, 1}, []int{5}},
		{"tail off path", []int{0, 1}, []int{2}},
		{"head off path", []int{0, 1}, []int{6}},
		{"discontinuous partial", []int{0, 1}, []int{7, 5}},
		{"empty partial", []int{0, 1}, nil},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.MergedRoute(tt.base, tt.partial)
			assert.True(t, errors.Is(err, ErrInvalidOperation), "got %v", err)
		})
	}
}

func TestMergedBackupRoute(t *testing.T) {
	s := newRingState(t)
	require.NoError(t, s.Apply(NewAddProtectionSegment(0, []int{2})))    // 2->3
	require.NoError(t, s.Apply(NewAddProtectionSegment(0, []int{7})))    // 0->3
	require.NoError(t, s.Apply(NewAddProtectionSegment(0, []int{4, 7}))) // 1->0->3

	got, err := s.MergedBackupRoute(LinkSteps([]int{0, 1}), 0)
	require.NoError(t, err)
	assert.Equal(t, []PathStep{SegmentStep(0)}, got)

	got, err = s.MergedBackupRoute(LinkSteps([]int{1, 2}), 1)
	require.NoError(t, err)
	assert.Equal(t, []PathStep{LinkStep(1), SegmentStep(1)}, got)

	got, err = s.MergedBackupRoute(LinkSteps([]int{1, 2}), 3)
	require.NoError(t, err)
	assert.Equal(t, []PathStep{SegmentStep(3)}, got)

	// a segment step is never cut: node 3 is inside S0, not at a boundary
	_, err = s.MergedBackupRoute([]PathStep{SegmentStep(0)}, 2)
	assert.True(t, errors.Is(err, ErrInvalidOperation))

	_, err = s.MergedBackupRoute(LinkSteps([]int{0, 1}), 42)
	assert.True(t, errors.Is(err, ErrInvalidOperation))
	_, err = s.MergedBackupRoute(nil, 0)
	assert.True(t, errors.Is(err, ErrInvalidOperation))
}
