package dist

import (
	"fmt"

	"gonum.org/v1/gonum/mathext/prng"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/roach88/mcsim/internal/rng"
)

// Uniform is the continuous uniform distribution on [Min, Max].
type Uniform struct {
	d   distuv.Uniform
	src *prng.MT19937
}

// NewUniform returns Uniform(lower, upper) drawing from an MT19937 seeded
// with seed.
func NewUniform(lower, upper float64, seed uint64) (*Uniform, error) {
	if !finite(lower, upper) || lower >= upper {
		return nil, fmt.Errorf("uniform: need finite lower < upper, got [%v, %v]", lower, upper)
	}
	src := rng.NewSource(seed)
	return &Uniform{
		d:   distuv.Uniform{Min: lower, Max: upper, Src: src},
		src: src,
	}, nil
}

func (u *Uniform) Sample() float64           { return u.d.Rand() }
func (u *Uniform) Density(x float64) float64 { return u.d.Prob(x) }
func (u *Uniform) Seed(seed uint64)          { u.src.Seed(seed) }

// Support returns [Min, Max].
func (u *Uniform) Support() (float64, float64) { return u.d.Min, u.d.Max }

// CDF returns P(X <= x).
func (u *Uniform) CDF(x float64) float64 { return u.d.CDF(x) }
