// Package algorithm provides the provisioning algorithms that react to
// failure and reparation events with route and segment actions.
package algorithm

import (
	"fmt"

	"github.com/netplan-sim/resilience-sim/sim"
)

// ProvisioningAlgorithm decides how the network reacts to events.
//
// ProcessEvent is called before the state applies ev, so the state still
// shows the pre-event picture; FailureEffects and ReparationEffects give
// the post-event view. The returned actions are applied after the routes
// hit by the event have been reset to their planned path with zero traffic.
type ProvisioningAlgorithm interface {
	Initialize(plan *sim.NetPlan, state sim.Reader) error
	ProcessEvent(plan *sim.NetPlan, state sim.Reader, ev sim.Event) ([]sim.Action, error)
	// Finish returns a human-readable report of the run.
	Finish(state sim.Reader) map[string]string
}

const (
	TypeNone        = "none"
	TypeRevert      = "revert"
	TypeRestoration = "restoration"
	TypeProtection  = "protection"
)

// ValidAlgorithms maps accepted algorithm names.
var ValidAlgorithms = map[string]bool{
	TypeNone:        true,
	TypeRevert:      true,
	TypeRestoration: true,
	TypeProtection:  true,
}

// IsValidAlgorithm returns true if name is a recognized algorithm.
func IsValidAlgorithm(name string) bool {
	return ValidAlgorithms[name]
}

const (
	// WeightHops scores a path by its number of links.
	WeightHops = "hops"
	// WeightLength scores a path by the sum of its link lengths.
	WeightLength = "length"
)

var validWeights = map[string]bool{
	"":           true, // defaults to hops
	WeightHops:   true,
	WeightLength: true,
}

// Config selects and parameterizes an algorithm.
type Config struct {
	Type string `yaml:"type" validate:"required"`
	// Weight is the shortest-path metric used for restoration.
	Weight string `yaml:"weight,omitempty"`
	// FallbackToRestoration lets protection compute a restoration path
	// when no backup segment can carry a route.
	FallbackToRestoration bool `yaml:"fallback_to_restoration,omitempty"`
}

// New creates the algorithm named by cfg.Type.
func New(cfg Config) (ProvisioningAlgorithm, error) {
	if !validWeights[cfg.Weight] {
		return nil, fmt.Errorf("unknown weight %q; valid: %s, %s", cfg.Weight, WeightHops, WeightLength)
	}
	switch cfg.Type {
	case TypeNone:
		return &None{}, nil
	case TypeRevert:
		return NewRevert(), nil
	case TypeRestoration:
		return NewRestoration(cfg.Weight), nil
	case TypeProtection:
		return NewProtection(cfg.Weight, cfg.FallbackToRestoration), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q; valid: none, revert, restoration, protection", cfg.Type)
	}
}

// None never acts: routes hit by a failure stay at zero traffic.
type None struct{}

func (*None) Initialize(*sim.NetPlan, sim.Reader) error { return nil }

func (*None) ProcessEvent(*sim.NetPlan, sim.Reader, sim.Event) ([]sim.Action, error) {
	return nil, nil
}

func (*None) Finish(sim.Reader) map[string]string { return map[string]string{} }
