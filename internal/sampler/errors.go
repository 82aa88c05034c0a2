package sampler

import (
	"errors"
	"fmt"
)

// Error represents a sampling failure.
//
// Errors are returned for:
//   - Invalid arguments: detected before any worker starts
//   - Worker faults: a panic in the target or proposal callbacks
//   - Cancellation: the caller's context ended before N samples were accepted
//
// EnvelopeViolation and NumericError codes are never returned; they label
// non-fatal events counted in Stats and metrics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run, if one had started.
	RunID string

	// Seed is the run's master seed. Set alongside RunID; replaying it with
	// WithSeed reproduces the run up to the point it failed.
	Seed uint64

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes sampling errors.
type ErrorCode string

const (
	// ErrCodeInvalidEnvelope indicates k <= 0 or a non-finite k.
	ErrCodeInvalidEnvelope ErrorCode = "INVALID_ENVELOPE"

	// ErrCodeInvalidSampleCount indicates N <= 0.
	ErrCodeInvalidSampleCount ErrorCode = "INVALID_SAMPLE_COUNT"

	// ErrCodeInvalidArgument indicates a missing target or proposal.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeEnvelopeViolation labels a draw whose ratio exceeded 1.
	ErrCodeEnvelopeViolation ErrorCode = "ENVELOPE_VIOLATION"

	// ErrCodeNumericError labels a draw discarded for a non-finite density.
	ErrCodeNumericError ErrorCode = "NUMERIC_ERROR"

	// ErrCodeWorkerFault indicates a pipeline stage failed.
	ErrCodeWorkerFault ErrorCode = "WORKER_FAULT"

	// ErrCodeCancelled indicates the context ended before the run completed.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RunID != "" {
		msg = fmt.Sprintf("%s (run=%s)", msg, e.RunID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsInvalidEnvelope returns true if err reports a non-positive envelope constant.
func IsInvalidEnvelope(err error) bool { return hasCode(err, ErrCodeInvalidEnvelope) }

// IsInvalidSampleCount returns true if err reports a non-positive sample count.
func IsInvalidSampleCount(err error) bool { return hasCode(err, ErrCodeInvalidSampleCount) }

// IsWorkerFault returns true if err reports a failed pipeline stage.
func IsWorkerFault(err error) bool { return hasCode(err, ErrCodeWorkerFault) }

// IsCancelled returns true if err reports a cancelled run.
// Uses errors.As to handle wrapped errors.
func IsCancelled(err error) bool { return hasCode(err, ErrCodeCancelled) }

// NewInvalidEnvelopeError creates an Error for an unusable envelope constant.
func NewInvalidEnvelopeError(k float64) *Error {
	return &Error{
		Code:    ErrCodeInvalidEnvelope,
		Message: fmt.Sprintf("envelope constant must be finite and > 0, got %v", k),
		Details: map[string]string{"k": fmt.Sprintf("%v", k)},
	}
}

// NewInvalidSampleCountError creates an Error for a non-positive sample count.
func NewInvalidSampleCountError(n int) *Error {
	return &Error{
		Code:    ErrCodeInvalidSampleCount,
		Message: fmt.Sprintf("sample count must be > 0, got %d", n),
		Details: map[string]string{"n": fmt.Sprintf("%d", n)},
	}
}

// NewWorkerFaultError creates an Error for a stage that panicked or failed.
func NewWorkerFaultError(runID, stage string, cause error) *Error {
	return &Error{
		Code:    ErrCodeWorkerFault,
		Message: fmt.Sprintf("%s stage failed", stage),
		RunID:   runID,
		Details: map[string]string{"stage": stage},
		Err:     cause,
	}
}

// stampSeed records the master seed of the run that failed.
func stampSeed(e *Error, seed uint64) *Error {
	e.Seed = seed
	return e
}

// NewCancelledError creates an Error for a run cut short by its context.
func NewCancelledError(runID string, accepted, requested int, cause error) *Error {
	return &Error{
		Code:    ErrCodeCancelled,
		Message: fmt.Sprintf("run cancelled after %d of %d samples", accepted, requested),
		RunID:   runID,
		Details: map[string]string{
			"accepted":  fmt.Sprintf("%d", accepted),
			"requested": fmt.Sprintf("%d", requested),
		},
		Err: cause,
	}
}
