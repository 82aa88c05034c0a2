package sampler

import (
	"log/slog"

	"github.com/roach88/mcsim/internal/dist"
	"github.com/roach88/mcsim/internal/queue"
)

// generator draws candidate batches from the proposal and feeds the sample
// queue. It is the only caller of proposal.Sample during a run.
type generator struct {
	proposal dist.Distribution
	batch    int
	out      *queue.Bounded[float64]
	p        *pipeline
	log      *slog.Logger

	// Owned by the generator goroutine; read only after join.
	generated int
	discarded int
}

// run loops until the pipeline drains. A blocked push is the backpressure
// point; a short push means the queue stopped and the rest of the batch is
// dropped.
func (g *generator) run() error {
	for g.p.running() {
		buf := make([]float64, g.batch)
		for i := range buf {
			buf[i] = g.proposal.Sample()
		}
		g.generated += len(buf)

		pushed := g.out.PushBatch(buf)
		if pushed < len(buf) {
			g.discarded += len(buf) - pushed
			g.log.Debug("generator stopped mid-push", "dropped", len(buf)-pushed)
			return nil
		}
	}
	return nil
}
