package sampler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Lifecycle(t *testing.T) {
	p := newPipeline(4)
	assert.Equal(t, StateIdle, p.State())
	assert.False(t, p.running())

	require.True(t, p.start())
	assert.Equal(t, StateRunning, p.State())
	assert.False(t, p.start(), "start is only valid from idle")

	require.True(t, p.drain(reasonComplete))
	assert.Equal(t, StateDraining, p.State())
	assert.Equal(t, reasonComplete, p.stopReason())
	assert.True(t, p.samples.Stopped())
	assert.True(t, p.scored.Stopped())

	assert.Equal(t, 0, p.finish())
	assert.Equal(t, StateStopped, p.State())
}

func TestPipeline_DrainFirstReasonWins(t *testing.T) {
	p := newPipeline(4)
	p.start()

	var wg sync.WaitGroup
	wins := make(chan drainReason, 3)
	for _, r := range []drainReason{reasonComplete, reasonCancelled, reasonFault} {
		wg.Add(1)
		go func(r drainReason) {
			defer wg.Done()
			if p.drain(r) {
				wins <- r
			}
		}(r)
	}
	wg.Wait()
	close(wins)

	var winners []drainReason
	for r := range wins {
		winners = append(winners, r)
	}
	require.Len(t, winners, 1, "exactly one drain makes the transition")
	assert.Equal(t, winners[0], p.stopReason())
}

func TestPipeline_DrainBeforeStartIsNoop(t *testing.T) {
	p := newPipeline(4)

	assert.False(t, p.drain(reasonCancelled))
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, 0, p.finish(), "finishing an idle pipeline must not block")
	assert.Equal(t, StateIdle, p.State())
}

func TestPipeline_DrainClosesChannel(t *testing.T) {
	p := newPipeline(4)
	p.start()

	select {
	case <-p.draining():
		t.Fatal("draining channel closed while running")
	default:
	}

	p.drain(reasonCancelled)

	select {
	case <-p.draining():
	case <-time.After(time.Second):
		t.Fatal("draining channel not closed")
	}
}

func TestPipeline_FinishCountsResidue(t *testing.T) {
	p := newPipeline(8)
	p.start()
	p.samples.PushBatch([]float64{1, 2, 3})
	p.scored.PushBatch([]Scored{{Value: 1, Ratio: 0.5}})

	assert.Equal(t, 4, p.finish(), "finish drains a running pipeline and counts residue")
	assert.Equal(t, StateStopped, p.State())
	assert.Equal(t, 0, p.samples.Len())
	assert.Equal(t, 0, p.scored.Len())
	assert.Equal(t, 0, p.finish(), "second finish is a no-op")
}

func TestPipeline_DrainWakesBlockedStages(t *testing.T) {
	p := newPipeline(1)
	p.start()
	p.samples.Push(1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.samples.Push(2) // blocks: full
	}()
	go func() {
		defer wg.Done()
		p.scored.PopBatch(1) // blocks: empty
	}()

	time.Sleep(10 * time.Millisecond)
	p.drain(reasonComplete)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drain did not wake blocked stages")
	}
	p.finish()
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "draining", StateDraining.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.Equal(t, "cancelled", reasonCancelled.String())
}
