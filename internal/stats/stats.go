// Package stats summarizes sampled output and checks it against a reference
// distribution.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the moments and range of a sample.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes the Summary of xs. An empty input yields a zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return Summary{
		Count:  len(xs),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}

// KSResult is the outcome of a one-sample Kolmogorov-Smirnov test.
type KSResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
}

// KolmogorovSmirnov tests xs against the continuous CDF cdf.
// xs is not modified.
func KolmogorovSmirnov(xs []float64, cdf func(float64) float64) KSResult {
	n := len(xs)
	if n == 0 {
		return KSResult{PValue: 1}
	}

	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	fn := float64(n)
	d := 0.0
	for i, x := range sorted {
		f := cdf(x)
		lo := f - float64(i)/fn
		hi := float64(i+1)/fn - f
		d = math.Max(d, math.Max(lo, hi))
	}

	sqrtN := math.Sqrt(fn)
	lambda := (sqrtN + 0.12 + 0.11/sqrtN) * d
	return KSResult{Statistic: d, PValue: kolmogorovQ(lambda)}
}

// kolmogorovQ is the complementary Kolmogorov distribution
// Q(λ) = 2 Σ (-1)^(j-1) exp(-2 j² λ²).
func kolmogorovQ(lambda float64) float64 {
	a2 := -2 * lambda * lambda
	sign := 2.0
	sum := 0.0
	prev := 0.0
	for j := 1; j <= 100; j++ {
		term := sign * math.Exp(a2*float64(j*j))
		sum += term
		if math.Abs(term) <= 1e-3*prev || math.Abs(term) <= 1e-8*sum {
			return clamp01(sum)
		}
		sign = -sign
		prev = math.Abs(term)
	}
	// Series failed to converge: λ is tiny and the fit is perfect.
	return 1
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
