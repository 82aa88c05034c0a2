package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mcsim/internal/config"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the run ID.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Run is the sampling configuration under test.
	Run config.Run `yaml:"run"`

	// ExpectError is the sampler error code the run must fail with.
	// Runs expected to fail skip semantic validation of Run.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate a successful run.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion checks one property of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is the expected sample count (length). Defaults to run.n.
	Count *int `yaml:"count,omitempty"`

	// Min and Max bound sample values (support) or the violation count
	// (envelope_violations).
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`

	// MinP is the smallest acceptable KS p-value (ks).
	MinP float64 `yaml:"min_p,omitempty"`

	// Expect and Tolerance bound the acceptance rate (acceptance_rate).
	Expect    float64 `yaml:"expect,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Assertion type constants.
const (
	AssertLength             = "length"
	AssertSupport            = "support"
	AssertKS                 = "ks"
	AssertAcceptanceRate     = "acceptance_rate"
	AssertEnvelopeViolations = "envelope_violations"
	AssertConservation       = "conservation"
)

var assertionTypes = map[string]bool{
	AssertLength:             true,
	AssertSupport:            true,
	AssertKS:                 true,
	AssertAcceptanceRate:     true,
	AssertEnvelopeViolations: true,
	AssertConservation:       true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.ExpectError == "" {
		if errs := config.Validate(&s.Run); len(errs) > 0 {
			return fmt.Errorf("run: %w", errs)
		}
		if len(s.Assertions) == 0 {
			return fmt.Errorf("assertions list is required and must be non-empty")
		}
	} else if len(s.Assertions) > 0 {
		return fmt.Errorf("assertions cannot be combined with expect_error")
	}

	for i, a := range s.Assertions {
		if !assertionTypes[a.Type] {
			return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
		}
		switch a.Type {
		case AssertKS:
			if a.MinP <= 0 || a.MinP >= 1 {
				return fmt.Errorf("assertions[%d]: ks requires 0 < min_p < 1", i)
			}
		case AssertAcceptanceRate:
			if a.Tolerance <= 0 {
				return fmt.Errorf("assertions[%d]: acceptance_rate requires tolerance > 0", i)
			}
		}
	}

	return nil
}
