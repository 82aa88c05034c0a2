// Package density provides named unnormalized target densities.
//
// Each Target is restricted to a domain [Lower, Upper] and evaluates to zero
// outside it. Where the normalized CDF has a closed form it is exposed so
// runs can be checked with a goodness-of-fit test.
package density

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Func is an unnormalized density.
type Func func(x float64) float64

// Target is a named density restricted to [Lower, Upper].
type Target struct {
	Name         string
	Lower, Upper float64

	// Density is zero outside [Lower, Upper].
	Density Func

	// CDF is the CDF of the normalized density, or nil if unknown.
	CDF func(x float64) float64
}

type builder func(lower, upper float64) (*Target, error)

var registry = map[string]builder{
	"sin":      newSin,
	"constant": newConstant,
	"gauss":    newGauss,
}

// Names lists the registered targets.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named target restricted to [lower, upper].
func Lookup(name string, lower, upper float64) (*Target, error) {
	build, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown target %q: must be one of %v", name, Names())
	}
	if math.IsNaN(lower) || math.IsNaN(upper) || lower >= upper {
		return nil, fmt.Errorf("target %s: need lower < upper, got [%v, %v]", name, lower, upper)
	}
	return build(lower, upper)
}

// restrict zeroes f outside [lower, upper].
func restrict(f Func, lower, upper float64) Func {
	return func(x float64) float64 {
		if x < lower || x > upper {
			return 0
		}
		return f(x)
	}
}

// normalizedCDF builds the CDF on [lower, upper] from an antiderivative g.
func normalizedCDF(g func(float64) float64, lower, upper float64) func(float64) float64 {
	gl, gu := g(lower), g(upper)
	return func(x float64) float64 {
		switch {
		case x <= lower:
			return 0
		case x >= upper:
			return 1
		}
		return (g(x) - gl) / (gu - gl)
	}
}

// newSin is sin(x). Negative lobes carry no mass, so the CDF integrates
// max(sin x, 0).
func newSin(lower, upper float64) (*Target, error) {
	if lower < 0 || math.IsInf(upper, 0) {
		return nil, fmt.Errorf("target sin: domain must lie in [0, +Inf), got [%v, %v]", lower, upper)
	}
	if positiveSinIntegral(upper)-positiveSinIntegral(lower) <= 0 {
		return nil, fmt.Errorf("target sin: no positive mass on [%v, %v]", lower, upper)
	}
	return &Target{
		Name:    "sin",
		Lower:   lower,
		Upper:   upper,
		Density: restrict(math.Sin, lower, upper),
		CDF:     normalizedCDF(positiveSinIntegral, lower, upper),
	}, nil
}

// positiveSinIntegral is the integral of max(sin t, 0) over [0, x], x >= 0.
func positiveSinIntegral(x float64) float64 {
	periods := math.Floor(x / (2 * math.Pi))
	r := x - periods*2*math.Pi
	partial := 2.0
	if r <= math.Pi {
		partial = 1 - math.Cos(r)
	}
	return 2*periods + partial
}

func newConstant(lower, upper float64) (*Target, error) {
	if math.IsInf(lower, 0) || math.IsInf(upper, 0) {
		return nil, fmt.Errorf("target constant: domain must be finite, got [%v, %v]", lower, upper)
	}
	one := func(float64) float64 { return 1 }
	return &Target{
		Name:    "constant",
		Lower:   lower,
		Upper:   upper,
		Density: restrict(one, lower, upper),
		CDF:     normalizedCDF(func(x float64) float64 { return x }, lower, upper),
	}, nil
}

// newGauss is exp(-x²/2), the unnormalized standard normal.
func newGauss(lower, upper float64) (*Target, error) {
	f := func(x float64) float64 { return math.Exp(-x * x / 2) }
	return &Target{
		Name:    "gauss",
		Lower:   lower,
		Upper:   upper,
		Density: restrict(f, lower, upper),
		CDF:     normalizedCDF(distuv.UnitNormal.CDF, lower, upper),
	}, nil
}
