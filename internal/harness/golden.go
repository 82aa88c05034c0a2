package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Verdict is the deterministic part of a Result: everything except sample
// values, timings and floating-point statistics.
type Verdict struct {
	ScenarioName string             `json:"scenario_name"`
	RunID        string             `json:"run_id,omitempty"`
	Pass         bool               `json:"pass"`
	Samples      int                `json:"samples"`
	ErrorCode    string             `json:"error_code,omitempty"`
	Assertions   []AssertionOutcome `json:"assertions"`
}

// NewVerdict extracts the verdict of result.
func NewVerdict(scenarioName string, result *Result) Verdict {
	return Verdict{
		ScenarioName: scenarioName,
		RunID:        result.RunID,
		Pass:         result.Pass,
		Samples:      len(result.Samples),
		ErrorCode:    result.ErrorCode,
		Assertions:   result.Assertions,
	}
}

// MarshalVerdict renders v as indented JSON with a trailing newline.
func MarshalVerdict(v Verdict) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its verdict against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the verdict doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result's verdict against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalVerdict(NewVerdict(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
