package config

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/mcsim/internal/density"
	"github.com/roach88/mcsim/internal/dist"
)

// Validation error codes (E200-E299)
const (
	ErrSchema          = "E200" // document does not match the run schema
	ErrUnknownTarget   = "E201" // target name not registered
	ErrTargetDomain    = "E202" // target domain unusable for this target
	ErrUnknownProposal = "E203" // proposal kind not built in
	ErrProposalParams  = "E204" // proposal parameters invalid for its kind
	ErrEnvelope        = "E205" // k must be finite and > 0
	ErrSampleCount     = "E206" // n must be > 0
	ErrPipelineSize    = "E207" // negative batch size or queue capacity
)

// ValidationError represents one problem in a run description.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is every problem found in one run description.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a decoded run. Returns all errors found (does not
// fail-fast). Runs built from CLI flags go through here too.
func Validate(r *Run) ValidationErrors {
	var errs ValidationErrors
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		})
	}

	if !slices.Contains(density.Names(), strings.ToLower(r.Target.Name)) {
		add("target.name", ErrUnknownTarget, "unknown target %q, must be one of %v", r.Target.Name, density.Names())
	} else if _, err := r.BuildTarget(); err != nil {
		add("target", ErrTargetDomain, "%v", err)
	}

	p := r.Proposal
	switch dist.Kind(strings.ToLower(string(p.Kind))) {
	case dist.KindUniform:
		if !finite(p.Min, p.Max) || p.Min >= p.Max {
			add("proposal", ErrProposalParams, "uniform needs finite min < max, got [%v, %v]", p.Min, p.Max)
		}
	case dist.KindNormal:
		if !finite(p.Mu, p.Sigma) || p.Sigma <= 0 {
			add("proposal.sigma", ErrProposalParams, "normal needs finite mu and sigma > 0, got mu=%v sigma=%v", p.Mu, p.Sigma)
		}
	case dist.KindExponential:
		if !finite(p.Rate) || p.Rate <= 0 {
			add("proposal.rate", ErrProposalParams, "exponential needs rate > 0, got %v", p.Rate)
		}
	default:
		add("proposal.kind", ErrUnknownProposal, "unknown proposal %q, must be one of %v", p.Kind, dist.Kinds)
	}

	if !(r.K > 0) || math.IsInf(r.K, 0) {
		add("k", ErrEnvelope, "envelope constant must be finite and > 0, got %v", r.K)
	}
	if r.N <= 0 {
		add("n", ErrSampleCount, "sample count must be > 0, got %d", r.N)
	}
	if r.BatchSize < 0 {
		add("batch_size", ErrPipelineSize, "batch size must be >= 0, got %d", r.BatchSize)
	}
	if r.QueueCapacity < 0 {
		add("queue_capacity", ErrPipelineSize, "queue capacity must be >= 0, got %d", r.QueueCapacity)
	}
	return errs
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
