// Package trace provides step-trace recording for simulation runs.
// This package has no dependencies on sim/ or its subpackages; it stores pure data types.
package trace

// StepRecord captures what happened while processing a single event.
type StepRecord struct {
	Time float64 `json:"time"`
	// Event is the event type name, e.g. "SRG_FAILURE".
	Event  string `json:"event"`
	Target int    `json:"target"`

	Affected      int `json:"affected,omitempty"`
	Unrecoverable int `json:"unrecoverable,omitempty"`
	Reparable     int `json:"reparable,omitempty"`

	// Actions lists the kinds of the actions the algorithm asked for, in order.
	Actions []string `json:"actions,omitempty"`
	Applied int      `json:"applied"`
	// Error is the message of the first action rejected by the state, if any.
	Error string `json:"error,omitempty"`

	CarriedTraffic float64 `json:"carried_traffic"`
	BlockedTraffic float64 `json:"blocked_traffic"`
}

// Rejected returns the number of requested actions that were not applied.
func (r StepRecord) Rejected() int {
	return len(r.Actions) - r.Applied
}
