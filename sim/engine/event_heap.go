package engine

import (
	"container/heap"

	"github.com/netplan-sim/resilience-sim/sim"
)

// eventTypePriority orders events sharing a timestamp. Lower runs first:
// failures are seen before the repairs scheduled at the same instant.
var eventTypePriority = map[sim.EventType]int{
	sim.EventSRGFailure:     0,
	sim.EventNodeFailure:    0,
	sim.EventLinkFailure:    0,
	sim.EventSRGReparation:  1,
	sim.EventNodeReparation: 1,
	sim.EventLinkReparation: 1,
}

type scheduled struct {
	ev  sim.Event
	seq uint64
}

// EventHeap implements a priority queue with deterministic ordering
// Ordering: time → type priority → scheduling order
type EventHeap struct {
	items []scheduled
	next  uint64
}

// NewEventHeap creates a new event heap
func NewEventHeap() *EventHeap {
	h := &EventHeap{items: make([]scheduled, 0)}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *EventHeap) Len() int { return len(h.items) }

// Less implements heap.Interface
func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.items[i], h.items[j]
	if ei.ev.Time != ej.ev.Time {
		return ei.ev.Time < ej.ev.Time
	}
	if pi, pj := eventTypePriority[ei.ev.Type], eventTypePriority[ej.ev.Type]; pi != pj {
		return pi < pj
	}
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (h *EventHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

// Push implements heap.Interface
func (h *EventHeap) Push(x any) { h.items = append(h.items, x.(scheduled)) }

// Pop implements heap.Interface
func (h *EventHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// Schedule adds an event to the heap
func (h *EventHeap) Schedule(ev sim.Event) {
	heap.Push(h, scheduled{ev: ev, seq: h.next})
	h.next++
}

// PopNext removes and returns the next event. ok is false when the heap is empty.
func (h *EventHeap) PopNext() (ev sim.Event, ok bool) {
	if h.Len() == 0 {
		return sim.Event{}, false
	}
	return heap.Pop(h).(scheduled).ev, true
}

// Peek returns the next event without removing it
func (h *EventHeap) Peek() (ev sim.Event, ok bool) {
	if h.Len() == 0 {
		return sim.Event{}, false
	}
	return h.items[0].ev, true
}
