package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalSteps     int
	EventCounts    map[string]int // event type -> count
	ActionCounts   map[string]int // action kind -> count requested
	RejectedCount  int
	StepsWithError int
	MaxBlocked     float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		EventCounts:  make(map[string]int),
		ActionCounts: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalSteps = len(st.Steps)
	for _, s := range st.Steps {
		summary.EventCounts[s.Event]++
		for _, kind := range s.Actions {
			summary.ActionCounts[kind]++
		}
		summary.RejectedCount += s.Rejected()
		if s.Error != "" {
			summary.StepsWithError++
		}
		if s.BlockedTraffic > summary.MaxBlocked {
			summary.MaxBlocked = s.BlockedTraffic
		}
	}
	return summary
}
