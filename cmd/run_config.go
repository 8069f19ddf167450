package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/netplan-sim/resilience-sim/sim/algorithm"
	"github.com/netplan-sim/resilience-sim/sim/engine"
	"github.com/netplan-sim/resilience-sim/sim/generator"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// RunConfig is the run.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	// Plan is the net plan file, relative to the run file unless absolute.
	Plan            string   `yaml:"plan" validate:"required"`
	PrecisionFactor *float64 `yaml:"precision_factor,omitempty" validate:"omitempty,gte=0"`
	Seed            int64    `yaml:"seed"`

	Engine    engine.Config    `yaml:",inline"`
	Generator generator.Config `yaml:"generator"`
	Algorithm algorithm.Config `yaml:"algorithm"`
}

// LoadRunConfig reads and validates a run file.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating run config %s: %w", path, err)
	}
	if !generator.IsValidGenerator(cfg.Generator.Type) {
		return nil, fmt.Errorf("validating run config %s: unknown generator %q", path, cfg.Generator.Type)
	}
	if !algorithm.IsValidAlgorithm(cfg.Algorithm.Type) {
		return nil, fmt.Errorf("validating run config %s: unknown algorithm %q", path, cfg.Algorithm.Type)
	}
	if !filepath.IsAbs(cfg.Plan) {
		cfg.Plan = filepath.Join(filepath.Dir(path), cfg.Plan)
	}
	return &cfg, nil
}

// KernelConfig returns the state configuration of the run.
func (c *RunConfig) KernelConfig() sim.Config {
	if c.PrecisionFactor == nil {
		return sim.DefaultConfig()
	}
	return sim.NewConfig(*c.PrecisionFactor)
}

// NewEngine loads the plan and wires the state, generator and algorithm
// into an engine.
func (c *RunConfig) NewEngine() (*engine.Engine, error) {
	plan, err := sim.LoadNetPlan(c.Plan)
	if err != nil {
		return nil, err
	}
	state, err := sim.NewNetState(plan, c.KernelConfig())
	if err != nil {
		return nil, err
	}
	gen, err := generator.New(c.Generator, sim.NewPartitionedRNG(sim.NewSimulationKey(c.Seed)))
	if err != nil {
		return nil, err
	}
	alg, err := algorithm.New(c.Algorithm)
	if err != nil {
		return nil, err
	}
	return engine.New(c.Engine, state, gen, alg), nil
}
