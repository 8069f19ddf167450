package sim

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// LoadNetPlan reads and parses a YAML network plan file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadNetPlan(path string) (*NetPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading net plan: %w", err)
	}
	return ParseNetPlan(data)
}

// ParseNetPlan decodes a YAML plan, checks field constraints and then the
// cross-references between plan elements.
func ParseNetPlan(data []byte) (*NetPlan, error) {
	var plan NetPlan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&plan); err != nil {
		return nil, fmt.Errorf("parsing net plan: %w", err)
	}
	if err := validate.Struct(&plan); err != nil {
		return nil, fmt.Errorf("validating net plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("validating net plan: %w", err)
	}
	return &plan, nil
}

// WriteNetPlan encodes plan as YAML to w.
func WriteNetPlan(w io.Writer, plan *NetPlan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("encoding net plan: %w", err)
	}
	return enc.Close()
}
