package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validScenario = `
name: small
description: "small sin run"
run:
  target: {name: sin, min: 0, max: 3}
  proposal: {kind: uniform, min: 0, max: 3}
  k: 3
  n: 100
  seed: 1
assertions:
  - type: length
  - type: ks
    min_p: 0.001
`

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, validScenario))
	require.NoError(t, err)

	assert.Equal(t, "small", s.Name)
	assert.Equal(t, "sin", s.Run.Target.Name)
	assert.Equal(t, 3.0, s.Run.K)
	assert.Equal(t, 100, s.Run.N)
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, AssertLength, s.Assertions[0].Type)
	assert.Equal(t, 0.001, s.Assertions[1].MinP)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, validScenario+"assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\nrun: {target: {name: sin, min: 0, max: 3}, proposal: {kind: uniform, min: 0, max: 3}, k: 3, n: 1}\nassertions: [{type: length}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nrun: {target: {name: sin, min: 0, max: 3}, proposal: {kind: uniform, min: 0, max: 3}, k: 3, n: 1}\nassertions: [{type: length}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no assertions",
			content: "name: x\ndescription: d\nrun: {target: {name: sin, min: 0, max: 3}, proposal: {kind: uniform, min: 0, max: 3}, k: 3, n: 1}\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "invalid run",
			content: "name: x\ndescription: d\nrun: {target: {name: sin, min: 0, max: 3}, proposal: {kind: uniform, min: 0, max: 3}, k: 0, n: 1}\nassertions: [{type: length}]\n",
			wantErr: "E205",
		},
		{
			name:    "unknown assertion",
			content: "name: x\ndescription: d\nrun: {target: {name: sin, min: 0, max: 3}, proposal: {kind: uniform, min: 0, max: 3}, k: 3, n: 1}\nassertions: [{type: median}]\n",
			wantErr: `unknown type "median"`,
		},
		{
			name:    "ks without min_p",
			content: "name: x\ndescription: d\nrun: {target: {name: sin, min: 0, max: 3}, proposal: {kind: uniform, min: 0, max: 3}, k: 3, n: 1}\nassertions: [{type: ks}]\n",
			wantErr: "ks requires",
		},
		{
			name:    "acceptance rate without tolerance",
			content: "name: x\ndescription: d\nrun: {target: {name: sin, min: 0, max: 3}, proposal: {kind: uniform, min: 0, max: 3}, k: 3, n: 1}\nassertions: [{type: acceptance_rate, expect: 0.5}]\n",
			wantErr: "tolerance > 0",
		},
		{
			name:    "expect_error with assertions",
			content: "name: x\ndescription: d\nrun: {target: {name: sin, min: 0, max: 3}, proposal: {kind: uniform, min: 0, max: 3}, k: 0, n: 1}\nexpect_error: INVALID_ENVELOPE\nassertions: [{type: length}]\n",
			wantErr: "cannot be combined",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_ExpectErrorSkipsRunValidation(t *testing.T) {
	content := "name: x\ndescription: d\nrun: {target: {name: sin, min: 0, max: 3}, proposal: {kind: uniform, min: 0, max: 3}, k: 0, n: 1}\nexpect_error: INVALID_ENVELOPE\n"

	s, err := LoadScenario(writeScenario(t, content))
	require.NoError(t, err)
	assert.Equal(t, "INVALID_ENVELOPE", s.ExpectError)
}
