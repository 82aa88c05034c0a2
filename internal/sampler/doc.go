// Package sampler implements concurrent Monte Carlo rejection sampling.
//
// ARCHITECTURE:
//
// A run is a three-stage pipeline joined by two bounded queues:
//
//	generator --samples--> evaluator --scored--> acceptor --> output
//
// Each stage runs in its own goroutine:
//
//   - generator draws batches of candidates from the proposal distribution.
//   - evaluator computes f(x) / (k·g(x)) for every candidate.
//   - acceptor runs the Bernoulli test and owns the termination decision.
//
// Backpressure: both queues have a fixed capacity, so a slow downstream stage
// blocks its producer instead of letting memory grow.
//
// Shutdown: the acceptor drains the pipeline exactly when the output reaches
// N values. Draining stops both queues, which wakes every blocked stage; each
// stage exits within one wait cycle. External cancellation and worker panics
// drain the pipeline the same way.
//
// Every call to Sample allocates a fresh pipeline (queues plus state
// machine), so nothing survives from one run into the next.
//
// INVARIANTS:
//   - len(output) == N on success, never more
//   - no queue ever holds more than its capacity
//   - Stats.Generated == Accepted + Rejected + NumericErrors + Discarded
//   - RNG streams are stage-private
package sampler
