package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathStep(t *testing.T) {
	l := LinkStep(3)
	assert.Equal(t, StepLink, l.Kind())
	id, ok := l.Link()
	assert.True(t, ok)
	assert.Equal(t, 3, id)
	_, ok = l.Segment()
	assert.False(t, ok)

	sg := SegmentStep(2)
	assert.Equal(t, StepSegment, sg.Kind())
	sid, ok := sg.Segment()
	assert.True(t, ok)
	assert.Equal(t, SegmentID(2), sid)
	_, ok = sg.Link()
	assert.False(t, ok)

	assert.Equal(t, "[L0 S2 L4]", FormatPath([]PathStep{LinkStep(0), sg, LinkStep(4)}))
	assert.Equal(t, "[]", FormatPath(nil))
}

func TestPathUsesSegment(t *testing.T) {
	path := []PathStep{LinkStep(1), SegmentStep(1)}
	assert.True(t, PathUsesSegment(path, 1))
	assert.False(t, PathUsesSegment(path, 0))
	assert.False(t, PathUsesSegment(LinkSteps([]int{1}), 1), "link 1 is not segment 1")
}

func TestPathEqualsLinks(t *testing.T) {
	assert.True(t, pathEqualsLinks(LinkSteps([]int{0, 1}), []int{0, 1}))
	assert.False(t, pathEqualsLinks(LinkSteps([]int{0}), []int{0, 1}))
	assert.False(t, pathEqualsLinks([]PathStep{SegmentStep(0), LinkStep(1)}, []int{0, 1}))
}
