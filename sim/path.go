package sim

import (
	"fmt"
	"strings"
)

// StepKind tags a PathStep.
type StepKind uint8

const (
	// StepLink is a plain link step.
	StepLink StepKind = iota
	// StepSegment is a reference to a protection segment.
	StepSegment
)

// PathStep is one element of a route's current path: either a plain link or
// a protection segment standing for its whole link sequence.
type PathStep struct {
	kind StepKind
	id   int64
}

// LinkStep returns a step over link l.
func LinkStep(l int) PathStep { return PathStep{kind: StepLink, id: int64(l)} }

// SegmentStep returns a step over protection segment id.
func SegmentStep(id SegmentID) PathStep { return PathStep{kind: StepSegment, id: int64(id)} }

// LinkSteps wraps a link sequence as path steps.
func LinkSteps(links []int) []PathStep {
	steps := make([]PathStep, len(links))
	for i, l := range links {
		steps[i] = LinkStep(l)
	}
	return steps
}

// Kind returns the step kind.
func (p PathStep) Kind() StepKind { return p.kind }

// Link returns the link index when the step is a link step.
func (p PathStep) Link() (int, bool) {
	if p.kind != StepLink {
		return 0, false
	}
	return int(p.id), true
}

// Segment returns the segment id when the step is a segment step.
func (p PathStep) Segment() (SegmentID, bool) {
	if p.kind != StepSegment {
		return 0, false
	}
	return SegmentID(p.id), true
}

func (p PathStep) String() string {
	if p.kind == StepSegment {
		return fmt.Sprintf("S%d", p.id)
	}
	return fmt.Sprintf("L%d", p.id)
}

// FormatPath renders steps as "[L0 S1 L4]".
func FormatPath(steps []PathStep) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// PathUsesSegment reports whether steps embed segment id.
func PathUsesSegment(steps []PathStep, id SegmentID) bool {
	for _, s := range steps {
		if sid, ok := s.Segment(); ok && sid == id {
			return true
		}
	}
	return false
}

// pathEqualsLinks reports whether steps is exactly the link sequence links.
func pathEqualsLinks(steps []PathStep, links []int) bool {
	if len(steps) != len(links) {
		return false
	}
	for i, s := range steps {
		if l, ok := s.Link(); !ok || l != links[i] {
			return false
		}
	}
	return true
}
