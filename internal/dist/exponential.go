package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext/prng"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/roach88/mcsim/internal/rng"
)

// Exponential is the exponential distribution with the given rate on [0, ∞).
type Exponential struct {
	d   distuv.Exponential
	src *prng.MT19937
}

// NewExponential returns Exp(rate); rate must be positive.
func NewExponential(rate float64, seed uint64) (*Exponential, error) {
	if !finite(rate) || rate <= 0 {
		return nil, fmt.Errorf("exponential: need finite rate > 0, got %v", rate)
	}
	src := rng.NewSource(seed)
	return &Exponential{
		d:   distuv.Exponential{Rate: rate, Src: src},
		src: src,
	}, nil
}

func (e *Exponential) Sample() float64           { return e.d.Rand() }
func (e *Exponential) Density(x float64) float64 { return e.d.Prob(x) }
func (e *Exponential) Seed(seed uint64)          { e.src.Seed(seed) }
func (e *Exponential) CDF(x float64) float64     { return e.d.CDF(x) }

func (e *Exponential) Support() (float64, float64) { return 0, math.Inf(1) }
