package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext/prng"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/roach88/mcsim/internal/rng"
)

// Normal is the Gaussian distribution N(Mu, Sigma²).
type Normal struct {
	d   distuv.Normal
	src *prng.MT19937
}

// NewNormal returns N(mu, sigma²); sigma must be positive.
func NewNormal(mu, sigma float64, seed uint64) (*Normal, error) {
	if !finite(mu, sigma) || sigma <= 0 {
		return nil, fmt.Errorf("normal: need finite mu and sigma > 0, got mu=%v sigma=%v", mu, sigma)
	}
	src := rng.NewSource(seed)
	return &Normal{
		d:   distuv.Normal{Mu: mu, Sigma: sigma, Src: src},
		src: src,
	}, nil
}

func (n *Normal) Sample() float64           { return n.d.Rand() }
func (n *Normal) Density(x float64) float64 { return n.d.Prob(x) }
func (n *Normal) Seed(seed uint64)          { n.src.Seed(seed) }
func (n *Normal) CDF(x float64) float64     { return n.d.CDF(x) }

func (n *Normal) Support() (float64, float64) { return math.Inf(-1), math.Inf(1) }
