package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/mcsim/internal/sampler"
	"github.com/roach88/mcsim/internal/stats"
)

// Run executes a test scenario and returns the result.
//
// Each scenario gets its own sampler with a private metrics registry and a
// run ID equal to the scenario name.
//
// A returned error means the scenario could not be executed (e.g. an unknown
// target); a failing run or assertion is reported through Result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	run := &scenario.Run

	target, err := run.BuildTarget()
	if err != nil {
		return nil, fmt.Errorf("build target: %w", err)
	}
	proposal, err := run.BuildProposal()
	if err != nil {
		return nil, fmt.Errorf("build proposal: %w", err)
	}

	opts := append(run.SamplerOptions(),
		sampler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
		sampler.WithRunIDGenerator(sampler.NewFixedGenerator(scenario.Name)),
	)
	s, err := sampler.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	result := NewResult()
	res, runErr := s.Sample(ctx, target.Density, proposal, run.K, run.N)

	if runErr != nil {
		var se *sampler.Error
		if !errors.As(runErr, &se) {
			return nil, runErr
		}
		result.ErrorCode = string(se.Code)
		result.RunID = se.RunID
		if scenario.ExpectError == "" {
			result.AddError(fmt.Sprintf("run failed: %v", runErr))
		} else if scenario.ExpectError != result.ErrorCode {
			result.AddError((&AssertionError{
				Type:     "expect_error",
				Expected: scenario.ExpectError,
				Actual:   result.ErrorCode,
			}).Error())
		}
		return result, nil
	}

	if scenario.ExpectError != "" {
		result.AddError((&AssertionError{
			Type:     "expect_error",
			Expected: scenario.ExpectError,
			Actual:   "run succeeded",
		}).Error())
		return result, nil
	}

	result.RunID = res.RunID
	result.Samples = res.Samples
	result.Stats = res.Stats
	result.Summary = stats.Summarize(res.Samples)
	if target.CDF != nil {
		ks := stats.KolmogorovSmirnov(res.Samples, target.CDF)
		result.KS = &ks
	}

	actx := &AssertionContext{
		Scenario: scenario,
		Proposal: proposal,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}
