// Package params provides parameter loading for evolutionary runs. A run is
// fully described by one Parameters value; loading merges a user YAML file
// over the embedded defaults so files only need to state what they change.
package params

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Parameters holds every knob of a run.
type Parameters struct {
	Seed      uint64         `yaml:"seed"`
	Structure Structure      `yaml:"structure"`
	Crossover Crossover      `yaml:"crossover"`
	Mutations []OperatorSpec `yaml:"mutations"`
}

// Structure holds the genome construction parameters.
type Structure struct {
	Inputs           int     `yaml:"inputs"`
	Outputs          int     `yaml:"outputs"`
	ConnectedPercent float64 `yaml:"connected_percent"` // share of inputs wired to all outputs at init
	Resolution       int     `yaml:"resolution"`        // weight pattern length in 64-bit words
	MaxResolution    int     `yaml:"max_resolution"`    // duplication bound; 0 = unbounded
	FeedForward      bool    `yaml:"feed_forward"`
	AllowSelfLoops   bool    `yaml:"allow_self_loops"`
	WeightStdDev     float64 `yaml:"weight_std_dev"` // std dev of freshly sampled weights
	WeightScale      float64 `yaml:"weight_scale"`   // decoded range is [-scale, scale]; 0 = 1
}

// Crossover holds the recombination parameters.
type Crossover struct {
	// DisjointPolicy is "prefer_first" or "inherit_all".
	DisjointPolicy string `yaml:"disjoint_policy"`
}

// OperatorSpec selects one mutation operator by registered name, the chance
// it fires per mutation pass and its operator-specific options.
type OperatorSpec struct {
	Name    string             `yaml:"name"`
	Chance  float64            `yaml:"chance"`
	Options map[string]float64 `yaml:"options,omitempty"`
}

// Default returns the embedded default parameters.
func Default() (*Parameters, error) {
	return Load("")
}

// Load reads parameters from a YAML file, merging over the embedded
// defaults. An empty path yields the defaults alone.
func Load(path string) (*Parameters, error) {
	p := &Parameters{}
	if err := yaml.Unmarshal(defaultsYAML, p); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading parameter file: %w", err)
		}
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parsing parameter file: %w", err)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate fails fast on parameter combinations no run can act on.
func (p *Parameters) Validate() error {
	s := p.Structure
	if s.Inputs < 1 {
		return fmt.Errorf("structure: at least one input is required, got %d", s.Inputs)
	}
	if s.Outputs < 1 {
		return fmt.Errorf("structure: at least one output is required, got %d", s.Outputs)
	}
	if s.ConnectedPercent < 0 || s.ConnectedPercent > 1 {
		return fmt.Errorf("structure: connected_percent must be in [0, 1], got %f", s.ConnectedPercent)
	}
	if s.Resolution < 1 {
		return fmt.Errorf("structure: resolution must be at least 1, got %d", s.Resolution)
	}
	if s.MaxResolution != 0 && s.MaxResolution < s.Resolution {
		return fmt.Errorf("structure: max_resolution %d is below resolution %d", s.MaxResolution, s.Resolution)
	}
	if s.FeedForward && s.AllowSelfLoops {
		return errors.New("structure: self-loops cannot be allowed in feed-forward mode")
	}
	if s.WeightStdDev <= 0 {
		return fmt.Errorf("structure: weight_std_dev must be positive, got %f", s.WeightStdDev)
	}
	if s.WeightScale < 0 {
		return fmt.Errorf("structure: weight_scale must not be negative, got %f", s.WeightScale)
	}

	switch p.Crossover.DisjointPolicy {
	case "prefer_first", "inherit_all":
	default:
		return fmt.Errorf("crossover: unknown disjoint_policy %q", p.Crossover.DisjointPolicy)
	}

	for i, spec := range p.Mutations {
		if spec.Name == "" {
			return fmt.Errorf("mutations[%d]: name is required", i)
		}
		if spec.Chance < 0 || spec.Chance > 1 {
			return fmt.Errorf("mutations[%d] (%s): chance must be in [0, 1], got %f", i, spec.Name, spec.Chance)
		}
	}
	return nil
}

// WriteYAML writes the parameters to a YAML file, used to scaffold editable
// run configurations.
func (p *Parameters) WriteYAML(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling parameters: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing parameter file: %w", err)
	}
	return nil
}
