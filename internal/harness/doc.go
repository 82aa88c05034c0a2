// Package harness provides conformance testing for the rejection sampler.
//
// The harness runs a sampling configuration through the real pipeline and
// checks statistical and accounting properties of the output.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: sin_demo
//	description: "sin on [0,4] matches its normalized CDF"
//	run:
//	  target: {name: sin, min: 0, max: 4}
//	  proposal: {kind: uniform, min: 0, max: 4}
//	  k: 4
//	  n: 100000
//	  seed: 42
//	assertions:
//	  - type: length
//	  - type: support
//	    min: 0
//	    max: 4
//	  - type: ks
//	    min_p: 0.01
//
// A scenario may instead set expect_error to a sampler error code such as
// INVALID_ENVELOPE; it then passes only if the run fails with that code.
//
// # Assertion Types
//
//   - length: exactly count samples (default: run.n)
//   - support: every sample within [min, max] (default: the proposal support)
//   - ks: Kolmogorov-Smirnov p-value against the target CDF is at least min_p
//   - acceptance_rate: within tolerance of expect
//   - envelope_violations: count within [min, max]
//   - conservation: generated equals accepted + rejected + numeric errors + discarded
//
// # Deterministic Testing
//
// Scenarios should set a seed. The harness fixes the run ID to the scenario
// name, so verdict snapshots compare byte-for-byte across runs.
package harness
