package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	path := writeRunFile(t, smallRunFile)

	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	out, _, err := execute(t, cmd, path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Run file valid")
}

func TestValidateCommand_VerboseDescribesRun(t *testing.T) {
	path := writeRunFile(t, smallRunFile)

	cmd := NewValidateCommand(&RootOptions{Format: "text", Verbose: true})
	_, errOut, err := execute(t, cmd, path)
	require.NoError(t, err)
	assert.Contains(t, errOut, "target sin[0,4], proposal uniform(min=0, max=4), k=4, n=500")
}

func TestValidateCommand_ValidJSON(t *testing.T) {
	path := writeRunFile(t, smallRunFile)

	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	out, _, err := execute(t, cmd, path)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	require.NotNil(t, resp.Data.Run)
	assert.Equal(t, "small-sin", resp.Data.Run.Name)
	require.NotNil(t, resp.Data.Run.Seed)
	assert.Equal(t, uint64(11), *resp.Data.Run.Seed)
}

func TestValidateCommand_SemanticErrors(t *testing.T) {
	// Schema-valid, but the uniform bounds are reversed.
	path := writeRunFile(t, `target: {name: sin, min: 0, max: 4}
proposal: {kind: uniform, min: 4, max: 0}
k: 1
n: 10
`)

	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	out, _, err := execute(t, cmd, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, "E204", resp.Data.Errors[0].Code)
	assert.Equal(t, "proposal", resp.Data.Errors[0].Field)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E204", resp.Error.Code)
}

func TestValidateCommand_SchemaErrorsText(t *testing.T) {
	path := writeRunFile(t, `target: {name: sin, min: 0, max: 4}
proposal: {kind: uniform, min: 0, max: 4}
k: -1
n: 10
colour: blue
`)

	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	out, _, err := execute(t, cmd, path)
	require.Error(t, err)
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E200")
	assert.Contains(t, err.Error(), "validation failed with")
}

func TestValidateCommand_FileNotFound(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	out, _, err := execute(t, cmd, "/nonexistent/run.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}
