package residual

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pals/pals/model"
	"github.com/cwbudde/algo-pals/pals/param"
)

// NormalizationScale weights the IRF sum-to-one residual against the data.
const NormalizationScale = 1e4

var (
	ErrLengthMismatch   = errors.New("residual: buffer length mismatch")
	ErrUnknownWeighting = errors.New("residual: unknown weighting")
)

// Weighting selects the per-point weight of the data residuals.
type Weighting int

const (
	WeightPoisson Weighting = iota // 1/sqrt(y+1)
	WeightUniform                  // 1
)

func (w Weighting) String() string {
	switch w {
	case WeightPoisson:
		return "poisson"
	case WeightUniform:
		return "uniform"
	default:
		return fmt.Sprintf("Weighting(%d)", int(w))
	}
}

// ParseWeighting maps "poisson" (or "") and "uniform" to a Weighting.
func ParseWeighting(s string) (Weighting, error) {
	switch s {
	case "", "poisson":
		return WeightPoisson, nil
	case "uniform", "none":
		return WeightUniform, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeighting, s)
	}
}

// Weights returns the weight of every observed value under w.
func (w Weighting) Weights(y []float64) []float64 {
	if w == WeightUniform {
		out := make([]float64, len(y))
		for i := range out {
			out[i] = 1
		}
		return out
	}

	return Weights(y)
}

// Func is the callback evaluated by the solver: it fills dst with the
// residuals for parameter vector p.
type Func func(p, dst []float64) error

// Weights returns 1/sqrt(y+1) for every observed value.
func Weights(y []float64) []float64 {
	w := make([]float64, len(y))
	for i, v := range y {
		w[i] = 1 / math.Sqrt(v+1)
	}

	return w
}

// Weighted writes w·(observed − predicted) into dst. All slices must have
// the same length.
func Weighted(dst, w, observed, predicted []float64) {
	for i := range dst {
		dst[i] = observed[i] - predicted[i]
	}

	vecmath.MulBlockInPlace(dst, w[:len(dst)])
}

// Normalization returns the synthetic IRF residual for the given IRF
// intensities.
func Normalization(intensities []float64) float64 {
	if len(intensities) < 2 {
		return 0
	}

	var sum float64
	for _, v := range intensities {
		sum += v
	}

	return (sum - 1) * NormalizationScale
}

// Count returns the residual vector length for an evaluator: one per
// channel pair plus the normalization residual.
func Count(e *model.Evaluator) int {
	return e.Len() + 1
}

// NewFunc builds the solver callback. observed and weights are indexed like
// the evaluator output; scratch space is allocated once and reused.
func NewFunc(e *model.Evaluator, layout param.Layout, observed, weights []float64) Func {
	n := e.Len()
	predicted := make([]float64, n)
	irf := layout.Indices(param.IRFIntensity)
	intensities := make([]float64, len(irf))

	return func(p, dst []float64) error {
		if len(dst) != n+1 {
			return ErrLengthMismatch
		}

		e.Evaluate(layout, p, predicted)
		Weighted(dst[:n], weights, observed[:n], predicted)

		for i, idx := range irf {
			intensities[i] = p[idx]
		}

		dst[n] = Normalization(intensities)

		return nil
	}
}

// ChiSquare returns Σ(w·(y−f))² over the first len(predicted) points.
func ChiSquare(observed, predicted, weights []float64) float64 {
	var chi2 float64
	for i, f := range predicted {
		r := weights[i] * (observed[i] - f)
		chi2 += r * r
	}

	return chi2
}
