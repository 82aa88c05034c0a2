package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/mcsim/internal/config"
	"github.com/roach88/mcsim/internal/sampler"
	"github.com/roach88/mcsim/internal/stats"
	"github.com/roach88/mcsim/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, the sampler's UUIDv7 generator is used.
	RunIDs sampler.RunIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <run-file>",
		Short: "Sample from a YAML run file",
		Long: `Load a YAML run file, validate it against the run schema and execute it.

The run file names a target density, a proposal, the envelope constant k and
the sample count n. Optional fields are seed, batch_size and queue_capacity.

Example:
  mcsim run ./runs/sin.yaml
  mcsim run --db ./mcsim.db ./runs/sin.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

func runFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run file not found: %s", path), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("run file not found: %s", path))
	}

	run, err := config.Load(path)
	if err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			return outputValidationErrors(formatter, verrs)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load run file", err)
	}

	return executeRun(cmd, opts, run, formatter)
}

// newLogger returns the text logger for sampling commands: Info by default,
// Debug with --verbose.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// executeRun samples a validated run, reports it and records it when a
// database is configured. Shared by sample and run.
func executeRun(cmd *cobra.Command, opts *RunOptions, run *config.Run, formatter *OutputFormatter) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	target, err := run.BuildTarget()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build target", err)
	}
	proposal, err := run.BuildProposal()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build proposal", err)
	}

	samplerOpts := append(run.SamplerOptions(), sampler.WithLogger(logger))
	if opts.RunIDs != nil {
		samplerOpts = append(samplerOpts, sampler.WithRunIDGenerator(opts.RunIDs))
	}
	s, err := sampler.New(samplerOpts...)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to create sampler", err)
	}

	// Setup signal handling for graceful cancellation
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, cancelling run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	rec := store.RunRecord{
		Name:      run.Name,
		Target:    describeTarget(run.Target),
		Proposal:  describeProposal(run.Proposal),
		K:         run.K,
		N:         run.N,
		StartedAt: time.Now(),
	}

	res, runErr := s.Sample(ctx, target.Density, proposal, run.K, run.N)
	if runErr != nil {
		var se *sampler.Error
		if errors.As(runErr, &se) && se.RunID != "" {
			rec.ID = se.RunID
			rec.Seed = se.Seed
			rec.Outcome = store.OutcomeFault
			if se.Code == sampler.ErrCodeCancelled {
				rec.Outcome = store.OutcomeCancelled
			}
			rec.Error = runErr.Error()
			if err := recordRun(ctx, opts.Database, rec, logger); err != nil {
				logger.Error("failed to record run", "run_id", rec.ID, "error", err)
			}
		}

		details := map[string]string{}
		if se != nil {
			details["code"] = string(se.Code)
			details["run_id"] = se.RunID
			if se.RunID != "" {
				details["seed"] = strconv.FormatUint(se.Seed, 10)
			}
		}
		_ = formatter.Error(ErrCodeSampling, runErr.Error(), details)
		return WrapExitError(ExitFailure, "sampling failed", runErr)
	}

	summary := &RunSummary{
		RunID:          res.RunID,
		Name:           run.Name,
		Target:         rec.Target,
		Proposal:       rec.Proposal,
		K:              run.K,
		N:              run.N,
		Seed:           res.Seed,
		AcceptanceRate: res.Stats.AcceptanceRate(),
		Stats:          res.Stats,
		Summary:        stats.Summarize(res.Samples),
	}
	if target.CDF != nil {
		ks := stats.KolmogorovSmirnov(res.Samples, target.CDF)
		summary.KS = &ks
	}

	rec.ID = res.RunID
	rec.Outcome = store.OutcomeComplete
	rec.Seed = res.Seed
	rec.Stats = res.Stats
	rec.Summary = &summary.Summary
	rec.KS = summary.KS
	if err := recordRun(ctx, opts.Database, rec, logger); err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}

	if formatter.Format == "json" {
		return formatter.encode(CLIResponse{Status: "ok", Data: summary, RunID: summary.RunID})
	}
	renderSummary(formatter.Writer, summary)
	return nil
}

// recordRun writes rec to the ledger at path. An empty path records nothing.
func recordRun(ctx context.Context, path string, rec store.RunRecord, logger *slog.Logger) error {
	if path == "" {
		return nil
	}

	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	// A cancelled run is still recorded, so the write must outlive ctx.
	if err := st.WriteRun(context.WithoutCancel(ctx), rec); err != nil {
		return err
	}
	logger.Debug("run recorded", "run_id", rec.ID, "db", path, "outcome", rec.Outcome)
	return nil
}
