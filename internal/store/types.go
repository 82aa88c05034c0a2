package store

import (
	"time"

	"github.com/roach88/mcsim/internal/sampler"
	"github.com/roach88/mcsim/internal/stats"
)

// Outcome values recorded for a run.
const (
	OutcomeComplete  = "complete"
	OutcomeCancelled = "cancelled"
	OutcomeFault     = "fault"
)

// RunRecord is one row of the run ledger.
type RunRecord struct {
	// Seq is assigned by the store on insert; it is ignored by WriteRun.
	Seq int64 `json:"seq"`

	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Outcome string `json:"outcome"`

	// Target and Proposal are human-readable descriptions, e.g. "sin[0,4]".
	Target   string  `json:"target"`
	Proposal string  `json:"proposal"`
	K        float64 `json:"k"`
	N        int     `json:"n"`
	Seed     uint64  `json:"seed"`

	Stats sampler.Stats `json:"stats"`

	// Summary and KS are nil for runs that produced no samples or whose
	// target has no known CDF.
	Summary *stats.Summary  `json:"summary,omitempty"`
	KS      *stats.KSResult `json:"ks,omitempty"`

	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// ListFilter narrows ListRuns. Zero values match everything.
type ListFilter struct {
	Name    string
	Outcome string

	// Limit keeps only the most recent Limit runs. 0 means no limit.
	Limit int
}
