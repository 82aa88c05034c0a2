// Package dist provides proposal distributions for rejection sampling.
//
// The sampler only depends on the Distribution capability; the concrete
// types here back the CLI and tests and wrap gonum's distuv distributions over
// a private MT19937 stream.
package dist

import (
	"fmt"
	"math"
	"strings"
)

// Distribution is the proposal capability: draw a value and evaluate the
// density at a point.
//
// Sample is only ever called from one goroutine at a time. Density may be
// called concurrently with Sample and must not mutate shared state.
type Distribution interface {
	Sample() float64
	Density(x float64) float64
}

// Seeder is implemented by distributions whose randomness can be reseeded.
// The sampler reseeds such proposals from its master seed before a run.
type Seeder interface {
	Seed(seed uint64)
}

// Bounded is implemented by distributions that report their support.
// Infinite bounds are allowed.
type Bounded interface {
	Support() (lower, upper float64)
}

// Kind names a built-in proposal family.
type Kind string

const (
	KindUniform     Kind = "uniform"
	KindNormal      Kind = "normal"
	KindExponential Kind = "exponential"
)

// Kinds lists the built-in families in a stable order.
var Kinds = []Kind{KindUniform, KindNormal, KindExponential}

// Params holds the parameters of every built-in family; each family reads
// only its own fields.
type Params struct {
	Min   float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max   float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Mu    float64 `yaml:"mu,omitempty" json:"mu,omitempty"`
	Sigma float64 `yaml:"sigma,omitempty" json:"sigma,omitempty"`
	Rate  float64 `yaml:"rate,omitempty" json:"rate,omitempty"`
}

// New builds a built-in proposal by kind.
func New(kind Kind, p Params, seed uint64) (Distribution, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindUniform:
		return NewUniform(p.Min, p.Max, seed)
	case KindNormal:
		return NewNormal(p.Mu, p.Sigma, seed)
	case KindExponential:
		return NewExponential(p.Rate, seed)
	default:
		return nil, fmt.Errorf("unknown proposal %q: must be one of %v", kind, Kinds)
	}
}

// InSupport reports whether x lies within d's support. Distributions that do
// not implement Bounded accept every finite x.
func InSupport(d Distribution, x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	b, ok := d.(Bounded)
	if !ok {
		return true
	}
	lo, hi := b.Support()
	return x >= lo && x <= hi
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
