package testutil

import (
	"math"
	"math/rand/v2"
)

// ExponentialBins returns amplitude·(exp(-i/tau) − exp(-(i+1)/tau)) for
// i in [0, n): an ideal exponential histogram starting at channel 0.
func ExponentialBins(n int, tau, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i)
		out[i] = amplitude * (math.Exp(-x/tau) - math.Exp(-(x+1)/tau))
	}
	return out
}

// RoundCounts rounds each value to the nearest non-negative integer.
func RoundCounts(values []float64) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = max(0, int(math.Round(v)))
	}
	return out
}

// DeterministicNoise returns uniform noise in [-amplitude, amplitude) from a
// fixed seed.
func DeterministicNoise(seed uint64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}
