package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mcsim/internal/config"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationResult represents the result of validation.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Run    *config.Run              `json:"run,omitempty"`
	Errors []config.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <run-file>",
		Short: "Validate a run file without sampling",
		Long: `Validate a YAML run file against the run schema and the semantic rules
(known target and proposal, finite parameters, k > 0, n > 0).

All problems are reported together.

Example:
  mcsim validate ./runs/sin.yaml
  mcsim validate ./runs/sin.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run file not found: %s", path), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("run file not found: %s", path))
	}

	formatter.VerboseLog("Validating %s", path)
	run, err := config.Load(path)
	if err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			return outputValidationErrors(formatter, verrs)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load run file", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Run: run})
	}
	fmt.Fprintln(formatter.Writer, "✓ Run file valid")
	formatter.VerboseLog("  target %s, proposal %s, k=%s, n=%d",
		describeTarget(run.Target), describeProposal(run.Proposal), formatFloat(run.K), run.N)
	return nil
}

// outputValidationErrors reports every validation error and returns the
// failure exit error.
func outputValidationErrors(formatter *OutputFormatter, errs config.ValidationErrors) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
