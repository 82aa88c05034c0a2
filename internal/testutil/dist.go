package testutil

import (
	"sync"
	"sync/atomic"
)

// FuncDistribution adapts two functions to the proposal capability.
type FuncDistribution struct {
	SampleFunc  func() float64
	DensityFunc func(x float64) float64
}

func (d FuncDistribution) Sample() float64           { return d.SampleFunc() }
func (d FuncDistribution) Density(x float64) float64 { return d.DensityFunc(x) }

// SequenceDistribution replays a fixed list of values, wrapping around, and
// reports the same density everywhere.
//
// Thread-safety: Sample and Density are safe for concurrent use.
type SequenceDistribution struct {
	mu      sync.Mutex
	values  []float64
	idx     int
	density float64
	calls   atomic.Int64
}

// NewSequenceDistribution creates a distribution that yields values in order.
//
// Panics if values is empty: a test must say what it wants drawn.
func NewSequenceDistribution(density float64, values ...float64) *SequenceDistribution {
	if len(values) == 0 {
		panic("SequenceDistribution: no values")
	}
	return &SequenceDistribution{values: values, density: density}
}

// Sample returns the next value of the sequence.
func (d *SequenceDistribution) Sample() float64 {
	d.calls.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.values[d.idx]
	d.idx = (d.idx + 1) % len(d.values)
	return v
}

// Density returns the configured constant density.
func (d *SequenceDistribution) Density(float64) float64 { return d.density }

// Calls returns how many times Sample was called.
func (d *SequenceDistribution) Calls() int64 { return d.calls.Load() }

// PanicDistribution behaves like Inner until Sample has been called After
// times, then panics on every call.
type PanicDistribution struct {
	Inner interface {
		Sample() float64
		Density(float64) float64
	}
	After int64

	calls atomic.Int64
}

func (d *PanicDistribution) Sample() float64 {
	if d.calls.Add(1) > d.After {
		panic("PanicDistribution: sample limit reached")
	}
	return d.Inner.Sample()
}

func (d *PanicDistribution) Density(x float64) float64 { return d.Inner.Density(x) }
