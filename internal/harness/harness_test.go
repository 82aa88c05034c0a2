package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mcsim/internal/config"
	"github.com/roach88/mcsim/internal/dist"
)

func smallRun() config.Run {
	seed := uint64(17)
	return config.Run{
		Target:   config.TargetSpec{Name: "sin", Min: 0, Max: 3},
		Proposal: config.ProposalSpec{Kind: dist.KindUniform, Params: dist.Params{Min: 0, Max: 3}},
		K:        3,
		N:        2000,
		Seed:     &seed,
	}
}

func TestRun_Passing(t *testing.T) {
	scenario := &Scenario{
		Name:        "passing",
		Description: "d",
		Run:         smallRun(),
		Assertions: []Assertion{
			{Type: AssertLength},
			{Type: AssertSupport},
			{Type: AssertConservation},
			{Type: AssertEnvelopeViolations, Max: ptr(0.0)},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "passing", result.RunID)
	assert.Len(t, result.Samples, 2000)
	assert.Equal(t, 2000, result.Summary.Count)
	require.NotNil(t, result.KS, "sin has a known CDF")
	assert.Len(t, result.Assertions, 4)
}

func TestRun_FailingAssertion(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "d",
		Run:         smallRun(),
		Assertions:  []Assertion{{Type: AssertLength, Count: ptr(1999)}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: length")
}

func TestRun_ExpectedError(t *testing.T) {
	run := smallRun()
	run.N = 0
	scenario := &Scenario{Name: "expected", Description: "d", Run: run, ExpectError: "INVALID_SAMPLE_COUNT"}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "INVALID_SAMPLE_COUNT", result.ErrorCode)
}

func TestRun_WrongExpectedError(t *testing.T) {
	run := smallRun()
	run.N = 0
	scenario := &Scenario{Name: "wrong", Description: "d", Run: run, ExpectError: "INVALID_ENVELOPE"}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "Expected: INVALID_ENVELOPE")
	assert.Contains(t, result.Errors[0], "Actual: INVALID_SAMPLE_COUNT")
}

func TestRun_ExpectedErrorButSucceeded(t *testing.T) {
	scenario := &Scenario{Name: "ok", Description: "d", Run: smallRun(), ExpectError: "INVALID_ENVELOPE"}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "run succeeded")
}

func TestRun_CancelledContext(t *testing.T) {
	scenario := &Scenario{
		Name:        "cancelled",
		Description: "d",
		Run:         smallRun(),
		Assertions:  []Assertion{{Type: AssertLength}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "CANCELLED", result.ErrorCode)
	assert.Equal(t, "cancelled", result.RunID)
}

func TestRun_UnknownTarget(t *testing.T) {
	run := smallRun()
	run.Target.Name = "cos"

	_, err := Run(context.Background(), &Scenario{Name: "x", Description: "d", Run: run})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build target")
}
