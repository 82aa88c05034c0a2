package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/mcsim/internal/config"
	"github.com/roach88/mcsim/internal/dist"
	"github.com/roach88/mcsim/internal/sampler"
	"github.com/roach88/mcsim/internal/stats"
)

// RunSummary is what sample and run report for a completed run.
type RunSummary struct {
	RunID          string          `json:"run_id"`
	Name           string          `json:"name,omitempty"`
	Target         string          `json:"target"`
	Proposal       string          `json:"proposal"`
	K              float64         `json:"k"`
	N              int             `json:"n"`
	Seed           uint64          `json:"seed"`
	AcceptanceRate float64         `json:"acceptance_rate"`
	Stats          sampler.Stats   `json:"stats"`
	Summary        stats.Summary   `json:"summary"`
	KS             *stats.KSResult `json:"ks,omitempty"`
}

// describeTarget renders a target spec as "sin[0,4]".
func describeTarget(t config.TargetSpec) string {
	return fmt.Sprintf("%s[%s,%s]", t.Name, formatFloat(t.Min), formatFloat(t.Max))
}

// describeProposal renders a proposal spec with the parameters its family reads.
func describeProposal(p config.ProposalSpec) string {
	switch p.Kind {
	case dist.KindUniform:
		return fmt.Sprintf("uniform(min=%s, max=%s)", formatFloat(p.Min), formatFloat(p.Max))
	case dist.KindNormal:
		return fmt.Sprintf("normal(mu=%s, sigma=%s)", formatFloat(p.Mu), formatFloat(p.Sigma))
	case dist.KindExponential:
		return fmt.Sprintf("exponential(rate=%s)", formatFloat(p.Rate))
	default:
		return string(p.Kind)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// renderSummary writes the text form of a run summary. Counts are grouped
// with English separators ("100,000") so large runs stay readable.
func renderSummary(w io.Writer, s *RunSummary) {
	p := message.NewPrinter(language.English)
	st := s.Stats

	title := s.RunID
	if s.Name != "" {
		title = fmt.Sprintf("%s (%s)", s.Name, s.RunID)
	}
	p.Fprintf(w, "Run %s\n", title)
	p.Fprintf(w, "  target      %s\n", s.Target)
	p.Fprintf(w, "  proposal    %s\n", s.Proposal)
	p.Fprintf(w, "  k           %s\n", formatFloat(s.K))
	p.Fprintf(w, "  seed        %s\n", strconv.FormatUint(s.Seed, 10))
	fmt.Fprintln(w)

	p.Fprintf(w, "  accepted    %d of %d requested\n", st.Accepted, s.N)
	p.Fprintf(w, "  generated   %d\n", st.Generated)
	p.Fprintf(w, "  rejected    %d\n", st.Rejected)
	p.Fprintf(w, "  discarded   %d\n", st.Discarded)
	if st.NumericErrors > 0 {
		p.Fprintf(w, "  numeric     %d\n", st.NumericErrors)
	}
	if st.EnvelopeViolations > 0 {
		p.Fprintf(w, "  violations  %d (max ratio %.4f)\n", st.EnvelopeViolations, st.MaxRatio)
	}
	p.Fprintf(w, "  rate        %.4f\n", s.AcceptanceRate)
	fmt.Fprintln(w)

	p.Fprintf(w, "  mean        %.4f\n", s.Summary.Mean)
	p.Fprintf(w, "  stddev      %.4f\n", s.Summary.StdDev)
	p.Fprintf(w, "  min         %.4f\n", s.Summary.Min)
	p.Fprintf(w, "  max         %.4f\n", s.Summary.Max)
	if s.KS != nil {
		p.Fprintf(w, "  ks          D=%.4f p=%.4f\n", s.KS.Statistic, s.KS.PValue)
	}
	p.Fprintf(w, "  duration    %s\n", st.Duration.Round(time.Millisecond).String())
}
