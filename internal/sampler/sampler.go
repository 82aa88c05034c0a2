package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/mcsim/internal/dist"
	"github.com/roach88/mcsim/internal/rng"
)

// TargetDensity is an unnormalized target density f.
type TargetDensity = func(x float64) float64

// DefaultBatchSize is the number of candidates each stage moves per batch.
const DefaultBatchSize = 100

// Stats describes what happened to every candidate of one run.
type Stats struct {
	Generated          int `json:"generated"`
	Accepted           int `json:"accepted"`
	Rejected           int `json:"rejected"`
	Discarded          int `json:"discarded"`
	NumericErrors      int `json:"numeric_errors"`
	EnvelopeViolations int `json:"envelope_violations"`

	// MaxRatio is the largest acceptance ratio the acceptor saw.
	MaxRatio float64 `json:"max_ratio"`

	BatchSize     int           `json:"batch_size"`
	QueueCapacity int           `json:"queue_capacity"`
	Duration      time.Duration `json:"duration_ns"`
}

// AcceptanceRate returns Accepted / (Accepted + Rejected), the fraction of
// decided draws that were kept.
func (s Stats) AcceptanceRate() float64 {
	decided := s.Accepted + s.Rejected
	if decided == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(decided)
}

// Result is the output of a successful run.
type Result struct {
	RunID   string
	Seed    uint64
	Samples []float64
	Stats   Stats
}

// Sampler runs rejection sampling pipelines. A Sampler holds configuration
// and metrics only; every Sample call builds its own pipeline, so one Sampler
// may serve sequential or concurrent calls. Sample reseeds a proposal that
// implements dist.Seeder, so concurrent calls must not share a proposal.
type Sampler struct {
	batchSize  int
	capacity   int
	seed       uint64
	seeded     bool
	logger     *slog.Logger
	registerer prometheus.Registerer
	runIDs     RunIDGenerator
	metrics    *metrics

	// makePipeline allocates the per-run pipeline.
	makePipeline func(capacity int) *pipeline
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithBatchSize sets the number of candidates moved per batch.
//
// Default: 100 (DefaultBatchSize)
func WithBatchSize(n int) Option {
	return func(s *Sampler) {
		s.batchSize = n
	}
}

// WithQueueCapacity sets the capacity of both pipeline queues.
// A capacity below the batch size is allowed; pushes then proceed in chunks.
//
// Default: twice the batch size.
func WithQueueCapacity(n int) Option {
	return func(s *Sampler) {
		s.capacity = n
	}
}

// WithSeed makes runs reproducible: the acceptor stream and, for proposals
// implementing dist.Seeder, the proposal stream are derived from seed.
// Without it each run draws a time-based master seed and reports it in
// Result.Seed (or Error.Seed), which replays the run when passed here.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) {
		s.seed = seed
		s.seeded = true
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Sampler) {
		s.logger = l
	}
}

// WithRegisterer registers the sampler's metrics with r.
// Default: a private registry.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(s *Sampler) {
		s.registerer = r
	}
}

// WithRunIDGenerator overrides run ID generation. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(s *Sampler) {
		s.runIDs = g
	}
}

// New creates a Sampler.
func New(opts ...Option) (*Sampler, error) {
	s := &Sampler{
		batchSize:    DefaultBatchSize,
		runIDs:       UUIDv7Generator{},
		makePipeline: newPipeline,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.batchSize < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", s.batchSize)
	}
	if s.capacity == 0 {
		s.capacity = 2 * s.batchSize
	}
	if s.capacity < 1 {
		return nil, fmt.Errorf("queue capacity must be >= 1, got %d", s.capacity)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.registerer == nil {
		s.registerer = prometheus.NewRegistry()
	}

	m, err := newMetrics(s.registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	s.metrics = m
	return s, nil
}

// RejectionSample draws n samples from the normalization of target using
// proposal and envelope constant k. It is shorthand for New followed by
// Sample.
func RejectionSample(
	ctx context.Context,
	target TargetDensity,
	proposal dist.Distribution,
	k float64,
	n int,
	opts ...Option,
) ([]float64, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	res, err := s.Sample(ctx, target, proposal, k, n)
	if err != nil {
		return nil, err
	}
	return res.Samples, nil
}

// Sample runs one pipeline and blocks until all stages have joined.
//
// Arguments are validated before any goroutine starts. On success the result
// holds exactly n samples. A worker fault or cancellation returns an *Error
// and no samples.
//
// proposal.Sample is called from the generator goroutine only, while
// proposal.Density and target are called from the evaluator goroutine.
// A proposal implementing dist.Seeder is reseeded from the run's master seed
// before any goroutine starts.
func (s *Sampler) Sample(
	ctx context.Context,
	target TargetDensity,
	proposal dist.Distribution,
	k float64,
	n int,
) (*Result, error) {
	if target == nil || proposal == nil {
		return nil, &Error{Code: ErrCodeInvalidArgument, Message: "target density and proposal are required"}
	}
	if !(k > 0) || math.IsInf(k, 0) {
		return nil, NewInvalidEnvelopeError(k)
	}
	if n <= 0 {
		return nil, NewInvalidSampleCountError(n)
	}

	runID := s.runIDs.Generate()
	seed := s.seed
	if !s.seeded {
		seed = rng.TimeSeed()
	}
	if err := ctx.Err(); err != nil {
		return nil, stampSeed(NewCancelledError(runID, 0, n, err), seed)
	}

	// Both streams come from one master seed, so Result.Seed replays the run.
	if sd, ok := proposal.(dist.Seeder); ok {
		sd.Seed(rng.Derive(seed, rng.StreamGenerator))
	}

	log := s.logger.With("run_id", runID)
	p := s.makePipeline(s.capacity)
	gen := &generator{
		proposal: proposal,
		batch:    s.batchSize,
		out:      p.samples,
		p:        p,
		log:      log,
	}
	ev := &evaluator{
		target:   target,
		proposal: proposal,
		k:        k,
		batch:    s.batchSize,
		in:       p.samples,
		out:      p.scored,
		p:        p,
		log:      log,
	}
	acc := newAcceptor(n, s.batchSize, rng.New(rng.Derive(seed, rng.StreamAcceptor)), p.scored, p, log)

	log.Info("sampling run starting",
		"n", n,
		"k", k,
		"batch", s.batchSize,
		"capacity", s.capacity,
		"seed", seed,
	)
	started := time.Now()
	p.start()

	// Turn caller cancellation into a drain; exits once the pipeline drains
	// for any reason.
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		select {
		case <-ctx.Done():
			if p.drain(reasonCancelled) {
				log.Info("sampling run cancelled", "cause", ctx.Err())
			}
		case <-p.draining():
		}
	}()

	var eg errgroup.Group
	eg.Go(s.stage(runID, "generator", p, gen.run, nil))
	eg.Go(s.stage(runID, "evaluator", p, ev.run, ev.drop))
	eg.Go(s.stage(runID, "acceptor", p, acc.run, acc.drop))
	runErr := eg.Wait()

	residual := p.finish()
	<-watchDone

	st := Stats{
		Generated:          gen.generated,
		Accepted:           len(acc.out),
		Rejected:           acc.rejected,
		Discarded:          gen.discarded + ev.discarded + acc.discarded + residual,
		NumericErrors:      ev.numericErrors,
		EnvelopeViolations: acc.envelopeViolations,
		MaxRatio:           acc.maxRatio,
		BatchSize:          s.batchSize,
		QueueCapacity:      s.capacity,
		Duration:           time.Since(started),
	}

	switch {
	case runErr != nil:
		s.metrics.observe("fault", st)
		var se *Error
		if errors.As(runErr, &se) {
			stampSeed(se, seed)
		}
		return nil, runErr
	case p.stopReason() == reasonCancelled && len(acc.out) < n:
		s.metrics.observe("cancelled", st)
		return nil, stampSeed(NewCancelledError(runID, len(acc.out), n, context.Cause(ctx)), seed)
	}

	s.metrics.observe("complete", st)
	if st.EnvelopeViolations > 0 {
		log.Warn("envelope constant too small for target",
			"violations", st.EnvelopeViolations,
			"max_ratio", st.MaxRatio,
			"k", k,
			"event", "envelope_violation",
		)
	}
	log.Info("sampling run finished",
		"accepted", st.Accepted,
		"generated", st.Generated,
		"acceptance_rate", st.AcceptanceRate(),
		"numeric_errors", st.NumericErrors,
		"duration", st.Duration,
	)

	return &Result{
		RunID:   runID,
		Seed:    seed,
		Samples: acc.out,
		Stats:   st,
	}, nil
}

// stage wraps a worker so that a panic or error drains the pipeline instead
// of leaving the other stages blocked on queues that will never move.
// onFault, if set, accounts for the worker's in-flight batch.
func (s *Sampler) stage(runID, name string, p *pipeline, run func() error, onFault func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			if err == nil {
				return
			}
			if onFault != nil {
				onFault()
			}
			p.drain(reasonFault)
			s.logger.Error("pipeline stage failed",
				"run_id", runID,
				"stage", name,
				"error", err,
			)
			err = NewWorkerFaultError(runID, name, err)
		}()
		return run()
	}
}
