package sampler

import (
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/mcsim/internal/queue"
)

// maxPrealloc bounds the up-front output allocation for very large N.
const maxPrealloc = 1 << 20

// acceptor performs the Bernoulli test and is the sole owner of the
// termination decision.
type acceptor struct {
	n     int
	batch int
	rng   *rand.Rand
	in    *queue.Bounded[Scored]
	p     *pipeline
	log   *slog.Logger

	// Owned by the acceptor goroutine; read only after join.
	out                []float64
	rejected           int
	discarded          int
	envelopeViolations int
	maxRatio           float64
	pending            int
}

func newAcceptor(n, batch int, r *rand.Rand, in *queue.Bounded[Scored], p *pipeline, log *slog.Logger) *acceptor {
	return &acceptor{
		n:     n,
		batch: batch,
		rng:   r,
		in:    in,
		p:     p,
		log:   log,
		out:   make([]float64, 0, min(n, maxPrealloc)),
	}
}

func (a *acceptor) run() error {
	for {
		batch := a.in.PopBatch(a.batch)
		if batch == nil {
			return nil
		}
		a.pending = len(batch)
		if !a.p.running() {
			a.drop()
			return nil
		}

		for _, s := range batch {
			a.pending--
			if !a.accept(s) {
				a.rejected++
				continue
			}

			a.out = append(a.out, s.Value)
			if len(a.out) == a.n {
				// Nothing past the Nth value is ever appended.
				a.drop()
				a.p.drain(reasonComplete)
				return nil
			}
		}
	}
}

// accept draws u ~ U(0,1) and accepts iff u <= min(ratio, 1). A ratio above 1
// means the envelope constant is too small: the draw is accepted and the
// violation recorded rather than stalling the run.
func (a *acceptor) accept(s Scored) bool {
	u := a.rng.Float64()
	if s.Ratio > 1 {
		a.envelopeViolations++
		if s.Ratio > a.maxRatio {
			a.maxRatio = s.Ratio
		}
		if a.envelopeViolations == 1 {
			a.log.Warn("envelope violated: ratio above 1, accepting draw",
				"x", s.Value,
				"ratio", s.Ratio,
				"event", "envelope_violation",
			)
		}
		return true
	}
	if s.Ratio > a.maxRatio {
		a.maxRatio = s.Ratio
	}
	return s.Ratio > 0 && u <= s.Ratio
}

func (a *acceptor) drop() {
	a.discarded += a.pending
	a.pending = 0
}
