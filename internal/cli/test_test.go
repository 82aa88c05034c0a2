package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: small_sin
description: sin through a uniform proposal
run:
  target: {name: sin, min: 0, max: 4}
  proposal: {kind: uniform, min: 0, max: 4}
  k: 4
  n: 300
  seed: 21
assertions:
  - type: length
    count: 300
  - type: support
  - type: conservation
`

const failingScenario = `name: wrong_rate
description: claims an acceptance rate the envelope cannot give
run:
  target: {name: constant, min: 0, max: 2}
  proposal: {kind: uniform, min: 0, max: 2}
  k: 8
  n: 300
  seed: 21
assertions:
  - type: acceptance_rate
    expect: 0.9
    tolerance: 0.01
`

const expectErrorScenario = `name: zero_envelope
description: k = 0 is refused before sampling starts
run:
  target: {name: sin, min: 0, max: 4}
  proposal: {kind: uniform, min: 0, max: 4}
  k: 0
  n: 10
expect_error: INVALID_ENVELOPE
`

// writeScenarios creates a scenarios directory holding the given files.
func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestTestCommandMissingArgs(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, _, err := execute(t, cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, _, err := execute(t, cmd, "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	dir := writeScenarios(t, nil)

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(t, cmd, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandAllPass(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"small_sin.yaml":     passingScenario,
		"zero_envelope.yaml": expectErrorScenario,
		"notes.txt":          "not a scenario",
	})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(t, cmd, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ small_sin")
	assert.Contains(t, out, "✓ zero_envelope")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFailureExitCode(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"small_sin.yaml":  passingScenario,
		"wrong_rate.yaml": failingScenario,
	})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(t, cmd, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_rate")
	assert.Contains(t, out, "Assertion failed: acceptance_rate")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandJSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"small_sin.yaml":  passingScenario,
		"wrong_rate.yaml": failingScenario,
	})

	cmd := NewTestCommand(&RootOptions{Format: "json"})
	out, _, err := execute(t, cmd, dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestsFailed, resp.Error.Code)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)

	byName := map[string]ScenarioResult{}
	for _, s := range resp.Data.Scenarios {
		byName[s.Name] = s
	}
	assert.True(t, byName["small_sin"].Pass)
	assert.Equal(t, "small_sin", byName["small_sin"].RunID)
	assert.False(t, byName["wrong_rate"].Pass)
	assert.NotEmpty(t, byName["wrong_rate"].Errors)
}

func TestTestCommandFilter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"small_sin.yaml":  passingScenario,
		"wrong_rate.yaml": failingScenario,
	})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(t, cmd, "--filter", "small_*", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.NotContains(t, out, "wrong_rate")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"small_sin.yaml": passingScenario})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, _, err := execute(t, cmd, "--filter", "[", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestTestCommandLoadError(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"broken.yaml": "name: broken\n"})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(t, cmd, dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandGoldenUpdateThenCompare(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"small_sin.yaml": passingScenario})

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(t, cmd, "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ small_sin (golden updated)")

	goldenPath := filepath.Join(dir, "golden", "small_sin.golden")
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name": "small_sin"`)
	assert.Contains(t, string(data), `"samples": 300`)

	// A fresh run reproduces the stored verdict.
	cmd = NewTestCommand(&RootOptions{Format: "text"})
	out, _, err = execute(t, cmd, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ small_sin")

	// A tampered golden file fails the scenario even though its assertions pass.
	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	cmd = NewTestCommand(&RootOptions{Format: "text"})
	out, _, err = execute(t, cmd, dir)
	require.Error(t, err)
	assert.Contains(t, out, "verdict does not match golden file")
}

func TestTestCommandShippedScenarios(t *testing.T) {
	if testing.Short() {
		t.Skip("runs every shipped scenario")
	}

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(t, cmd, filepath.Join("..", "..", "testdata", "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ All scenarios passed")
}
