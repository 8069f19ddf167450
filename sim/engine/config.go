package engine

import (
	"fmt"

	"github.com/netplan-sim/resilience-sim/sim/trace"
)

// Policies for actions rejected by the state.
const (
	// OnErrorAbort stops the run at the first rejected action.
	OnErrorAbort = "abort"
	// OnErrorSkip applies actions one at a time, logging and counting the
	// rejected ones.
	OnErrorSkip = "skip"
)

// Config controls a run.
type Config struct {
	// HorizonHours is the simulated time span; events after it are not processed.
	HorizonHours  float64          `yaml:"horizon_hours" validate:"gt=0"`
	OnActionError string           `yaml:"on_action_error,omitempty" validate:"omitempty,oneof=abort skip"`
	TraceLevel    trace.TraceLevel `yaml:"trace_level,omitempty"`
}

// Validate checks the config, returning the first problem found.
func (c Config) Validate() error {
	if !(c.HorizonHours > 0) {
		return fmt.Errorf("horizon_hours must be > 0, got %f", c.HorizonHours)
	}
	switch c.OnActionError {
	case "", OnErrorAbort, OnErrorSkip:
	default:
		return fmt.Errorf("unknown on_action_error %q; valid: %s, %s", c.OnActionError, OnErrorAbort, OnErrorSkip)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}

func (c Config) skipInvalid() bool { return c.OnActionError == OnErrorSkip }
