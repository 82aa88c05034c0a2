package sampler

import (
	"sync"

	"github.com/roach88/mcsim/internal/queue"
)

// State is the lifecycle state of one sampling run.
type State int

const (
	// StateIdle is a freshly allocated pipeline; no stage has started.
	StateIdle State = iota
	// StateRunning means all stages may produce and consume.
	StateRunning
	// StateDraining means stop was signalled; stages are exiting.
	StateDraining
	// StateStopped means all stages joined and the queues were emptied.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// drainReason records why a pipeline left StateRunning.
type drainReason int

const (
	reasonNone drainReason = iota
	reasonComplete
	reasonCancelled
	reasonFault
)

func (r drainReason) String() string {
	switch r {
	case reasonComplete:
		return "complete"
	case reasonCancelled:
		return "cancelled"
	case reasonFault:
		return "fault"
	default:
		return "none"
	}
}

// Scored is a candidate paired with its acceptance ratio.
type Scored struct {
	Value float64
	Ratio float64
}

// pipeline owns the queues and the state machine of exactly one run.
//
// Transitions happen only through start, drain and finish:
//
//	Idle --start--> Running --drain--> Draining --finish--> Stopped
//
// Out-of-order calls are no-ops, so concurrent drains from several stages
// are safe and only the first reason is kept.
type pipeline struct {
	mu     sync.Mutex
	state  State
	reason drainReason

	samples *queue.Bounded[float64]
	scored  *queue.Bounded[Scored]

	// drained is closed on the transition to Draining.
	drained chan struct{}
}

func newPipeline(capacity int) *pipeline {
	return &pipeline{
		state:   StateIdle,
		samples: queue.New[float64](capacity),
		scored:  queue.New[Scored](capacity),
		drained: make(chan struct{}),
	}
}

// start moves Idle to Running. Returns false for any other state.
func (p *pipeline) start() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateIdle {
		return false
	}
	p.state = StateRunning
	return true
}

// drain moves Running to Draining: both queues stop accepting items and every
// blocked stage wakes. Returns true only for the call that made the
// transition.
func (p *pipeline) drain(reason drainReason) bool {
	p.mu.Lock()
	if p.state != StateRunning {
		p.mu.Unlock()
		return false
	}
	p.state = StateDraining
	p.reason = reason
	close(p.drained)
	p.mu.Unlock()

	// Queue locks are never taken while holding mu.
	p.samples.Stop()
	p.scored.Stop()
	return true
}

// finish moves Draining to Stopped after all stages have joined. It discards
// whatever is still queued and returns how many items that was. A pipeline
// that is still Running is drained first. Only the orchestrator calls finish.
func (p *pipeline) finish() int {
	p.drain(reasonNone)
	if p.State() != StateDraining {
		// Idle pipelines never started; Stopped ones are already empty.
		return 0
	}
	residual := discardAll(p.samples) + discardAll(p.scored)

	p.mu.Lock()
	p.state = StateStopped
	p.mu.Unlock()
	return residual
}

// discardAll empties a stopped queue and returns how many items it held.
func discardAll[T any](q *queue.Bounded[T]) int {
	n := 0
	for items := q.PopBatch(q.Cap()); items != nil; items = q.PopBatch(q.Cap()) {
		n += len(items)
	}
	return n
}

// running reports whether stages should keep producing.
func (p *pipeline) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StateRunning
}

// State returns the current lifecycle state.
func (p *pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// stopReason returns why the pipeline drained.
func (p *pipeline) stopReason() drainReason {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reason
}

// draining returns a channel closed once the pipeline leaves Running.
func (p *pipeline) draining() <-chan struct{} {
	return p.drained
}
