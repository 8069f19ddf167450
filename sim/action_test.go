package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_Kinds(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{AddRoute{}, "ADD_ROUTE"},
		{ModifyRoute{}, "MODIFY_ROUTE"},
		{RemoveRoute{}, "REMOVE_ROUTE"},
		{RemoveAllRoutes{}, "REMOVE_ALL_ROUTES"},
		{AddProtectionSegment{}, "ADD_PROTECTION_SEGMENT"},
		{AddSegmentToBackupList{}, "ADD_SEGMENT_TO_ROUTE_BACKUP_LIST"},
		{RemoveSegmentFromBackupList{}, "REMOVE_SEGMENT_FROM_ROUTE_BACKUP_LIST"},
		{RemoveAllSegmentsFromBackupList{}, "REMOVE_ALL_SEGMENTS_FROM_ROUTE_BACKUP_LIST"},
		{RemoveProtectionSegment{}, "REMOVE_PROTECTION_SEGMENT"},
		{RemoveAllProtectionSegments{}, "REMOVE_ALL_PROTECTION_SEGMENTS"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(tt.action.Kind()))
	}
	assert.Equal(t, "MODIFY_ROUTE(route=3, traffic=unchanged, path=unchanged)", NewModifyRouteTraffic(3, Unchanged).String())
}

func TestAddRoute(t *testing.T) {
	t.Run("plain links", func(t *testing.T) {
		s := newRingState(t)
		require.NoError(t, s.Apply(NewAddRoute(1, 1.5, []int{4, 7})))

		r := mustRoute(t, s, 2)
		assert.Equal(t, 1, r.Demand())
		assert.Equal(t, []int{4, 7}, r.PlannedPath())
		assert.Equal(t, 1.5, r.PlannedTraffic())
		assert.Equal(t, 1.5, r.CurrentTraffic())
		assert.True(t, r.IsOnPlannedPath())
		assert.Equal(t, RouteID(3), s.NextRouteID())
	})

	t.Run("over a segment step", func(t *testing.T) {
		s := newRingState(t)
		require.NoError(t, s.Apply(AddRoute{Demand: 0, Traffic: 1, Path: []PathStep{SegmentStep(0)}}))

		r := mustRoute(t, s, 2)
		assert.Equal(t, []int{7, 6}, r.PlannedPath())
		assert.Equal(t, []PathStep{SegmentStep(0)}, r.CurrentPath())
		assert.False(t, r.IsOnPlannedPath())
	})

	t.Run("duplicate backups collapse", func(t *testing.T) {
		s := newRingState(t)
		require.NoError(t, s.Apply(NewAddRoute(0, 1, []int{0, 1}, 0, 0)))
		assert.Equal(t, []SegmentID{0}, mustRoute(t, s, 2).BackupSegments())
	})

	invalid := []struct {
		name   string
		action AddRoute
	}{
		{"unknown demand", NewAddRoute(5, 1, []int{0, 1})},
		{"wrong egress", NewAddRoute(0, 1, []int{0})},
		{"wrong ingress", NewAddRoute(1, 1, []int{0, 1, 2})},
		{"discontinuous", NewAddRoute(0, 1, []int{0, 2})},
		{"empty path", NewAddRoute(0, 1, nil)},
		{"unknown link", NewAddRoute(0, 1, []int{0, 42})},
		{"negative traffic", NewAddRoute(0, -1, []int{0, 1})},
		{"NaN traffic", NewAddRoute(0, math.NaN(), []int{0, 1})},
		{"unknown segment step", AddRoute{Demand: 0, Traffic: 1, Path: []PathStep{SegmentStep(9)}}},
		{"unknown backup", NewAddRoute(0, 1, []int{0, 1}, 9)},
		{"unmergeable backup", NewAddRoute(1, 1, []int{1, 2}, 0)},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			s := newRingState(t)
			err := s.Apply(tt.action)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOperation), "got %v", err)
			assert.Equal(t, 2, s.NumRoutes())
			assert.Equal(t, RouteID(2), s.NextRouteID())
		})
	}
}

func TestModifyRoute(t *testing.T) {
	t.Run("traffic only", func(t *testing.T) {
		s := newRingState(t)
		require.NoError(t, s.Apply(NewModifyRouteTraffic(0, 2.5)))
		r := mustRoute(t, s, 0)
		assert.Equal(t, 2.5, r.CurrentTraffic())
		assert.Equal(t, 4.0, r.PlannedTraffic())
		assert.Equal(t, LinkSteps([]int{0, 1}), r.CurrentPath())
	})

	t.Run("path only keeps traffic", func(t *testing.T) {
		s := newRingState(t)
		require.NoError(t, s.Apply(NewModifyRoutePath(0, Unchanged, []PathStep{SegmentStep(0)})))
		r := mustRoute(t, s, 0)
		assert.Equal(t, 4.0, r.CurrentTraffic())
		assert.Equal(t, []PathStep{SegmentStep(0)}, r.CurrentPath())
		assert.Equal(t, []int{0, 1}, r.PlannedPath())
	})

	t.Run("new path through a down element", func(t *testing.T) {
		s := newRingState(t)
		require.NoError(t, s.Update(NewNodeFailure(1, 3), nil))
		err := s.Apply(NewModifyRoutePath(0, 4, LinkSteps([]int{7, 6})))
		assert.True(t, errors.Is(err, ErrInvalidOperation))
		assert.Equal(t, LinkSteps([]int{0, 1}), mustRoute(t, s, 0).CurrentPath())
	})

	invalid := []struct {
		name   string
		action ModifyRoute
	}{
		{"unknown route", NewModifyRouteTraffic(7, 1)},
		{"negative traffic", NewModifyRouteTraffic(0, -2)},
		{"infinite traffic", NewModifyRouteTraffic(0, math.Inf(1))},
		{"path of another demand", NewModifyRoutePath(0, 1, LinkSteps([]int{1, 2}))},
		{"unknown segment step", NewModifyRoutePath(0, 1, []PathStep{SegmentStep(3)})},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			s := newRingState(t)
			err := s.Apply(tt.action)
			assert.True(t, errors.Is(err, ErrInvalidOperation), "got %v", err)
			assert.Equal(t, 4.0, mustRoute(t, s, 0).CurrentTraffic())
		})
	}
}

func TestRemoveRoute_IDsAreNeverReused(t *testing.T) {
	s := newRingState(t)

	require.NoError(t, s.Apply(RemoveRoute{Route: 1}))
	assert.True(t, errors.Is(s.Apply(RemoveRoute{Route: 1}), ErrInvalidOperation))
	assert.True(t, errors.Is(s.Apply(RemoveRoute{Route: -1}), ErrInvalidOperation))

	require.NoError(t, s.Apply(NewAddRoute(1, 3, []int{1, 2})))
	_, ok := s.Route(1)
	assert.False(t, ok)
	assert.Equal(t, 1, mustRoute(t, s, 2).Demand())

	require.NoError(t, s.Apply(RemoveAllRoutes{}))
	assert.Equal(t, 0, s.NumRoutes())
	assert.Equal(t, RouteID(3), s.NextRouteID())
	assert.Empty(t, s.Routes())
}

func TestAddProtectionSegment(t *testing.T) {
	s := newRingState(t)

	require.NoError(t, s.Apply(NewAddProtectionSegment(0, []int{0, 1})))
	sg, ok := s.Segment(1)
	require.True(t, ok)
	assert.False(t, sg.IsDedicated())
	assert.Equal(t, SegmentID(2), s.NextSegmentID())

	assert.True(t, errors.Is(s.Apply(NewAddProtectionSegment(1, []int{0, 2})), ErrInvalidOperation))
	assert.True(t, errors.Is(s.Apply(NewAddProtectionSegment(-1, []int{0})), ErrInvalidOperation))
	assert.True(t, errors.Is(s.Apply(NewAddProtectionSegment(1, nil)), ErrInvalidOperation))
	assert.Equal(t, 2, s.NumSegments())
}

func TestAddSegmentToBackupList(t *testing.T) {
	s := newRingState(t)
	require.NoError(t, s.Apply(NewAddProtectionSegment(0, []int{0, 1}))) // 0->1->2
	require.NoError(t, s.Apply(NewAddProtectionSegment(0, []int{2, 3}))) // 2->3->0
	require.NoError(t, s.Apply(NewAddProtectionSegment(0, []int{4})))    // 1->0

	require.NoError(t, s.Apply(AddSegmentToBackupList{Segment: 1, Route: 0}))
	require.NoError(t, s.Apply(AddSegmentToBackupList{Segment: 1, Route: 0}))
	assert.Equal(t, []SegmentID{0, 1}, mustRoute(t, s, 0).BackupSegments())

	tests := []struct {
		name   string
		action AddSegmentToBackupList
	}{
		{"tail upstream of head", AddSegmentToBackupList{Segment: 2, Route: 0}},
		{"reverse hop", AddSegmentToBackupList{Segment: 3, Route: 0}},
		{"unknown route", AddSegmentToBackupList{Segment: 1, Route: 9}},
		{"unknown segment", AddSegmentToBackupList{Segment: 9, Route: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(s.Apply(tt.action), ErrInvalidOperation))
		})
	}
	assert.Equal(t, []SegmentID{0, 1}, mustRoute(t, s, 0).BackupSegments())
}

// inUseState returns a ring state in which route 0 runs over segment 0
// because link 1 is down.
func inUseState(t *testing.T) *NetState {
	t.Helper()
	s := newRingState(t)
	require.NoError(t, s.Update(NewLinkFailure(1, 1), []Action{
		NewModifyRoutePath(0, 4, []PathStep{SegmentStep(0)}),
	}))
	return s
}

func TestRemoveSegmentFromBackupList(t *testing.T) {
	t.Run("removes listed segment", func(t *testing.T) {
		s := newRingState(t)
		require.NoError(t, s.Apply(RemoveSegmentFromBackupList{Segment: 0, Route: 0}))
		assert.Empty(t, mustRoute(t, s, 0).BackupSegments())
		_, ok := s.Segment(0)
		assert.True(t, ok, "segment itself survives")
	})

	t.Run("not listed", func(t *testing.T) {
		s := newRingState(t)
		assert.True(t, errors.Is(s.Apply(RemoveSegmentFromBackupList{Segment: 0, Route: 1}), ErrInvalidOperation))
	})

	t.Run("segment in current path", func(t *testing.T) {
		s := inUseState(t)
		assert.True(t, errors.Is(s.Apply(RemoveSegmentFromBackupList{Segment: 0, Route: 0}), ErrInvalidOperation))
		assert.Equal(t, []SegmentID{0}, mustRoute(t, s, 0).BackupSegments())
	})
}

func TestRemoveAllSegmentsFromBackupList(t *testing.T) {
	s := newRingState(t)
	require.NoError(t, s.Apply(RemoveAllSegmentsFromBackupList{Route: 0}))
	assert.Empty(t, mustRoute(t, s, 0).BackupSegments())
	assert.True(t, errors.Is(s.Apply(RemoveAllSegmentsFromBackupList{Route: 5}), ErrInvalidOperation))

	s = inUseState(t)
	assert.True(t, errors.Is(s.Apply(RemoveAllSegmentsFromBackupList{Route: 0}), ErrInvalidOperation))
	assert.Equal(t, []SegmentID{0}, mustRoute(t, s, 0).BackupSegments())
}

func TestRemoveProtectionSegment(t *testing.T) {
	t.Run("drops it from every backup list", func(t *testing.T) {
		s := newRingState(t)
		require.NoError(t, s.Apply(RemoveProtectionSegment{Segment: 0}))
		_, ok := s.Segment(0)
		assert.False(t, ok)
		assert.False(t, mustRoute(t, s, 0).HasBackup(0))
		assert.Equal(t, SegmentID(1), s.NextSegmentID())
		assert.True(t, errors.Is(s.Apply(RemoveProtectionSegment{Segment: 0}), ErrInvalidOperation))
	})

	t.Run("in use", func(t *testing.T) {
		s := inUseState(t)
		assert.True(t, errors.Is(s.Apply(RemoveProtectionSegment{Segment: 0}), ErrInvalidOperation))
		assert.Equal(t, 1, s.NumSegments())
	})
}

func TestRemoveAllProtectionSegments(t *testing.T) {
	s := newRingState(t)
	require.NoError(t, s.Apply(NewAddProtectionSegment(0, []int{4})))
	require.NoError(t, s.Apply(RemoveAllProtectionSegments{}))
	assert.Equal(t, 0, s.NumSegments())
	assert.Equal(t, SegmentID(2), s.NextSegmentID())
	assert.Empty(t, mustRoute(t, s, 0).BackupSegments())

	s = inUseState(t)
	require.NoError(t, s.Apply(NewAddProtectionSegment(0, []int{4})))
	assert.True(t, errors.Is(s.Apply(RemoveAllProtectionSegments{}), ErrInvalidOperation))
	assert.Equal(t, 2, s.NumSegments(), "nothing removed when one segment is in use")
}

func TestApply_NilAction(t *testing.T) {
	s := newRingState(t)
	assert.True(t, errors.Is(s.Apply(nil), ErrInvalidOperation))
}
