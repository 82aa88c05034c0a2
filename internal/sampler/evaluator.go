package sampler

import (
	"log/slog"
	"math"

	"github.com/roach88/mcsim/internal/dist"
	"github.com/roach88/mcsim/internal/queue"
)

// evaluator scores candidates with f(x) / (k·g(x)).
type evaluator struct {
	target   TargetDensity
	proposal dist.Distribution
	k        float64
	batch    int
	in       *queue.Bounded[float64]
	out      *queue.Bounded[Scored]
	p        *pipeline
	log      *slog.Logger

	// Owned by the evaluator goroutine; read only after join.
	numericErrors int
	discarded     int
	// pending counts popped candidates not yet forwarded or dropped.
	pending int
}

func (e *evaluator) run() error {
	for {
		batch := e.in.PopBatch(e.batch)
		if batch == nil {
			return nil
		}
		e.pending = len(batch)
		if !e.p.running() {
			e.drop()
			return nil
		}

		scored := make([]Scored, 0, len(batch))
		for _, x := range batch {
			ratio, ok := e.ratio(x)
			if !ok {
				e.pending--
				e.numericErrors++
				e.log.Debug("discarding draw with non-finite density", "x", x)
				continue
			}
			scored = append(scored, Scored{Value: x, Ratio: ratio})
		}
		if len(scored) == 0 {
			continue
		}

		// Scored but unpushed candidates stay pending until they leave.
		pushed := e.out.PushBatch(scored)
		e.pending -= pushed
		if pushed < len(scored) {
			e.drop()
			return nil
		}
	}
}

// drop discards everything still pending. Also used after a panic so the
// popped batch stays accounted for.
func (e *evaluator) drop() {
	e.discarded += e.pending
	e.pending = 0
}

// ratio returns the acceptance ratio of x. ok is false when any term is not
// finite; such a draw must never reach the acceptor.
//
// A zero or negative density on either side yields ratio 0.
func (e *evaluator) ratio(x float64) (ratio float64, ok bool) {
	f := e.target(x)
	g := e.proposal.Density(x)
	if !isFinite(f) || !isFinite(g) {
		return 0, false
	}
	if f <= 0 || g <= 0 {
		return 0, true
	}

	ratio = f / (e.k * g)
	if !isFinite(ratio) {
		return 0, false
	}
	return ratio, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
