// Package generator provides the event generators that drive a resilience
// simulation: they produce the SRG failure and reparation timeline the
// engine feeds into the network state.
package generator

import (
	"fmt"

	"github.com/netplan-sim/resilience-sim/sim"
)

// EventGenerator produces simulation events. Initialize returns the events
// scheduled before the run starts; ProcessEvent is called for every event
// the engine delivers and returns follow-up events to schedule. Generators
// read the state through sim.Reader and never mutate it.
type EventGenerator interface {
	Initialize(plan *sim.NetPlan, state sim.Reader) ([]sim.Event, error)
	ProcessEvent(plan *sim.NetPlan, state sim.Reader, ev sim.Event) ([]sim.Event, error)
}

const (
	// TypeScripted replays a fixed event timeline.
	TypeScripted = "scripted"
	// TypeRandomSRG alternates every SRG between up and down with
	// exponentially distributed durations.
	TypeRandomSRG = "random_srg"
)

// ValidGenerators maps accepted generator type names.
var ValidGenerators = map[string]bool{
	TypeScripted:  true,
	TypeRandomSRG: true,
}

// IsValidGenerator returns true if name is a recognized generator type.
func IsValidGenerator(name string) bool {
	return ValidGenerators[name]
}

// Config selects and parameterizes a generator.
type Config struct {
	Type string `yaml:"type" validate:"required"`

	// Events is the timeline replayed by the scripted generator.
	Events []sim.Event `yaml:"events,omitempty" validate:"dive"`
	// AllowElementEvents lets a scripted timeline contain node and link
	// events; by default only SRG events are accepted.
	AllowElementEvents bool `yaml:"allow_element_events,omitempty"`

	// DefaultMTTFHours and DefaultMTTRHours apply to SRGs that do not set
	// their own. An SRG whose MTTF resolves to zero never fails.
	DefaultMTTFHours float64 `yaml:"default_mttf_hours,omitempty" validate:"gte=0"`
	DefaultMTTRHours float64 `yaml:"default_mttr_hours,omitempty" validate:"gte=0"`
}

// New creates the generator named by cfg.Type. rng is only read by the
// random generator and may be nil for the scripted one.
func New(cfg Config, rng *sim.PartitionedRNG) (EventGenerator, error) {
	switch cfg.Type {
	case TypeScripted:
		return NewScripted(cfg.Events, cfg.AllowElementEvents), nil
	case TypeRandomSRG:
		if rng == nil {
			return nil, fmt.Errorf("generator %q requires an RNG", cfg.Type)
		}
		return NewRandomSRG(rng, cfg.DefaultMTTFHours, cfg.DefaultMTTRHours), nil
	default:
		return nil, fmt.Errorf("unknown generator %q; valid: %s, %s", cfg.Type, TypeScripted, TypeRandomSRG)
	}
}
