package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/mcsim/internal/dist"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// AssertionContext carries what assertions need beyond the result.
type AssertionContext struct {
	Scenario *Scenario
	Proposal dist.Distribution
}

// EvaluateAssertions runs every assertion against result, records each
// verdict in result.Assertions and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for _, a := range assertions {
		err := evaluate(result, a, actx)
		result.Assertions = append(result.Assertions, AssertionOutcome{Type: a.Type, Pass: err == nil})
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertLength:
		return assertLength(result, a, actx)
	case AssertSupport:
		return assertSupport(result, a, actx)
	case AssertKS:
		return assertKS(result, a)
	case AssertAcceptanceRate:
		return assertAcceptanceRate(result, a)
	case AssertEnvelopeViolations:
		return assertEnvelopeViolations(result, a)
	case AssertConservation:
		return assertConservation(result)
	default:
		return &AssertionError{Type: a.Type, Expected: "known assertion type", Actual: a.Type}
	}
}

func assertLength(result *Result, a Assertion, actx *AssertionContext) error {
	want := actx.Scenario.Run.N
	if a.Count != nil {
		want = *a.Count
	}
	if len(result.Samples) != want {
		return &AssertionError{
			Type:     AssertLength,
			Expected: fmt.Sprintf("%d samples", want),
			Actual:   fmt.Sprintf("%d samples", len(result.Samples)),
		}
	}
	return nil
}

// assertSupport checks bounds when given, otherwise the proposal support.
func assertSupport(result *Result, a Assertion, actx *AssertionContext) error {
	lo, hi := math.Inf(-1), math.Inf(1)
	if a.Min != nil {
		lo = *a.Min
	}
	if a.Max != nil {
		hi = *a.Max
	}
	useProposal := a.Min == nil && a.Max == nil

	for i, x := range result.Samples {
		inside := x >= lo && x <= hi
		if useProposal {
			inside = dist.InSupport(actx.Proposal, x)
		}
		if !inside {
			expected := fmt.Sprintf("every sample in [%v, %v]", lo, hi)
			if useProposal {
				expected = "every sample in the proposal support"
			}
			return &AssertionError{
				Type:     AssertSupport,
				Expected: expected,
				Actual:   fmt.Sprintf("sample %d = %v", i, x),
			}
		}
	}
	return nil
}

func assertKS(result *Result, a Assertion) error {
	if result.KS == nil {
		return &AssertionError{
			Type:     AssertKS,
			Expected: "target with a known CDF",
			Actual:   "no CDF available",
		}
	}
	if result.KS.PValue < a.MinP {
		return &AssertionError{
			Type:     AssertKS,
			Expected: fmt.Sprintf("p-value >= %v", a.MinP),
			Actual:   fmt.Sprintf("p-value %.4g (D = %.4g)", result.KS.PValue, result.KS.Statistic),
		}
	}
	return nil
}

func assertAcceptanceRate(result *Result, a Assertion) error {
	rate := result.Stats.AcceptanceRate()
	if math.Abs(rate-a.Expect) > a.Tolerance {
		return &AssertionError{
			Type:     AssertAcceptanceRate,
			Expected: fmt.Sprintf("%v ± %v", a.Expect, a.Tolerance),
			Actual:   fmt.Sprintf("%.4f", rate),
		}
	}
	return nil
}

func assertEnvelopeViolations(result *Result, a Assertion) error {
	got := float64(result.Stats.EnvelopeViolations)
	lo, hi := 0.0, math.Inf(1)
	if a.Min != nil {
		lo = *a.Min
	}
	if a.Max != nil {
		hi = *a.Max
	}
	if got < lo || got > hi {
		return &AssertionError{
			Type:     AssertEnvelopeViolations,
			Expected: fmt.Sprintf("violations in [%v, %v]", lo, hi),
			Actual:   fmt.Sprintf("%d violations", result.Stats.EnvelopeViolations),
		}
	}
	return nil
}

func assertConservation(result *Result) error {
	st := result.Stats
	accounted := st.Accepted + st.Rejected + st.NumericErrors + st.Discarded
	if st.Generated != accounted {
		return &AssertionError{
			Type:     AssertConservation,
			Expected: fmt.Sprintf("generated (%d) = accepted + rejected + numeric errors + discarded", st.Generated),
			Actual: fmt.Sprintf("%d + %d + %d + %d = %d",
				st.Accepted, st.Rejected, st.NumericErrors, st.Discarded, accounted),
		}
	}
	return nil
}
