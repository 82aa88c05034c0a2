package harness

import (
	"github.com/roach88/mcsim/internal/sampler"
	"github.com/roach88/mcsim/internal/stats"
)

// AssertionOutcome is the verdict of one assertion.
type AssertionOutcome struct {
	Type string `json:"type"`
	Pass bool   `json:"pass"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Assertions lists each assertion verdict in scenario order.
	Assertions []AssertionOutcome `json:"assertions"`

	// ErrorCode is the sampler error code, if the run failed.
	ErrorCode string `json:"error_code,omitempty"`

	RunID   string          `json:"run_id,omitempty"`
	Samples []float64       `json:"-"`
	Stats   sampler.Stats   `json:"-"`
	Summary stats.Summary   `json:"-"`
	KS      *stats.KSResult `json:"-"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Errors:     []string{},
		Assertions: []AssertionOutcome{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
