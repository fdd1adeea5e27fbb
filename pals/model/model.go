package model

import (
	"math"

	"github.com/cwbudde/algo-pals/pals/param"
	"github.com/cwbudde/algo-pals/pals/spectrum"
)

// FWHMToSigma divides a Gaussian FWHM to obtain the width used in the
// convolution integral.
var FWHMToSigma = 2 * math.Sqrt(math.Ln2)

// Decay is one exponential component in channel units.
type Decay struct {
	Tau       float64
	Intensity float64
}

// Kernel is one Gaussian IRF component in channel units.
type Kernel struct {
	FWHM      float64
	Sigma     float64
	Mu        float64
	Intensity float64
}

// Components is the decoded form of a parameter vector.
type Components struct {
	Decays     []Decay
	Kernels    []Kernel
	Background float64
}

// Decode splits p according to layout.
func Decode(layout param.Layout, p []float64) Components {
	c := Components{
		Decays:  make([]Decay, 0, layout.DecayCount()),
		Kernels: make([]Kernel, 0, layout.IRFCount()),
	}

	for i, s := range layout.Slots {
		v := p[i]

		switch s.Kind {
		case param.SourceTau, param.SampleTau:
			c.Decays = append(c.Decays, Decay{Tau: v})
		case param.SourceIntensity, param.SampleIntensity:
			c.Decays[len(c.Decays)-1].Intensity = v
		case param.IRFSigma:
			c.Kernels = append(c.Kernels, Kernel{FWHM: v, Sigma: v / FWHMToSigma})
		case param.IRFMu:
			c.Kernels[len(c.Kernels)-1].Mu = v
		case param.IRFIntensity:
			c.Kernels[len(c.Kernels)-1].Intensity = v
		case param.Background:
			c.Background = v
		}
	}

	return c
}

// Bin returns the fraction of a normalized exponential (lifetime tau)
// convolved with a Gaussian (sigma, mu) that falls into [x0, x1].
func Bin(x0, x1, tau, sigma, mu float64) float64 {
	return 0.5 * (edge(x0, tau, sigma, mu) - edge(x1, tau, sigma, mu) -
		math.Erf((x0-mu)/sigma) + math.Erf((x1-mu)/sigma))
}

// edge is the exponential part of the antiderivative at x.
func edge(x, tau, sigma, mu float64) float64 {
	e := math.Erfc(0.5*sigma/tau - (x-mu)/sigma)
	if e == 0 {
		return 0
	}

	return math.Exp(-(x-mu-sigma*sigma/(4*tau))/tau) * e
}

// Shape returns the normalized model value for the interval [x0, x1]:
// the IRF-weighted sum of all intensity-weighted decay bins.
func (c Components) Shape(x0, x1 float64) float64 {
	var f float64

	for _, k := range c.Kernels {
		var g float64
		for _, d := range c.Decays {
			g += d.Intensity * Bin(x0, x1, d.Tau, k.Sigma, k.Mu)
		}

		f += k.Intensity * g
	}

	return f
}

// Evaluator holds the fixed per-fit inputs of the model: ROI channel
// positions relative to the ROI start, integral counts and ROI width.
type Evaluator struct {
	X        []float64
	Integral float64
	Width    float64
}

// NewEvaluator returns an evaluator for roi.
func NewEvaluator(roi spectrum.ROI) *Evaluator {
	return &Evaluator{
		X:        roi.X,
		Integral: float64(roi.Integral),
		Width:    roi.Width(),
	}
}

// Len returns the number of model values, one per adjacent channel pair.
func (e *Evaluator) Len() int {
	if len(e.X) < 2 {
		return 0
	}

	return len(e.X) - 1
}

// Evaluate writes the predicted counts for parameter vector p into dst,
// which must hold at least Len() values.
func (e *Evaluator) Evaluate(layout param.Layout, p []float64, dst []float64) {
	c := Decode(layout, p)
	scale := e.Integral - c.Background*e.Width

	for i := range e.Len() {
		dst[i] = c.Shape(e.X[i], e.X[i+1])*scale + c.Background
	}
}

// Curve evaluates p and pairs each value with its absolute channel.
func (e *Evaluator) Curve(layout param.Layout, p []float64, channels []int) []spectrum.Sample {
	values := make([]float64, e.Len())
	e.Evaluate(layout, p, values)

	out := make([]spectrum.Sample, len(values))
	for i, v := range values {
		out[i] = spectrum.Sample{Channel: channels[i], Value: v}
	}

	return out
}
