package sim

import "math"

// DefaultPrecisionFactor is the tolerance used when no explicit one is configured.
const DefaultPrecisionFactor = 1e-3

// Config groups the run-scoped kernel parameters passed to NewNetState.
type Config struct {
	// PrecisionFactor is the absolute tolerance applied to every carried-traffic
	// and capacity comparison (must be >= 0).
	PrecisionFactor float64 `yaml:"precision_factor" validate:"gte=0"`
}

// NewConfig creates a Config with the given precision factor.
func NewConfig(precisionFactor float64) Config {
	return Config{PrecisionFactor: precisionFactor}
}

// DefaultConfig returns a Config using DefaultPrecisionFactor.
func DefaultConfig() Config {
	return NewConfig(DefaultPrecisionFactor)
}

// exceeds reports whether value is greater than limit beyond the tolerance.
func exceeds(value, limit, tolerance float64) bool {
	return value > limit+tolerance
}

func validTraffic(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
