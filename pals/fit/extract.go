package fit

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-pals/pals/param"
	"github.com/cwbudde/algo-pals/pals/residual"
	"github.com/cwbudde/algo-pals/pals/spectrum"
	residualstats "github.com/cwbudde/algo-pals/stats/residual"
)

// extract writes the loop outcome back into set and derives the summary
// quantities.
func extract(ctx *fitContext, set *param.Set, spec spectrum.Spectrum, loop runLoop) *Result {
	res := ctx.settings.ChannelResolution
	layout := ctx.asm.Layout
	dof := float64(ctx.dof)

	r := &Result{
		ID:          uuid.New(),
		Digest:      spec.Digest(),
		Timestamp:   time.Now(),
		State:       loop.state,
		Status:      loop.status,
		StatusText:  loop.status.String(),
		Iterations:  loop.iterations,
		DOF:         ctx.dof,
		CountsInROI: ctx.roi.Integral,
	}

	var (
		intensityVar float64
		tauVar       float64
		taus         int
	)

	for i, slot := range layout.Slots {
		p := layout.Param(set, i)
		if p.Fixed {
			p.Fit, p.FitError = p.Start, 0
		} else {
			scale := 1.0
			if slot.Kind.TimeScaled() {
				scale = res
			}
			p.Fit = loop.params[i] * scale
			p.FitError = loop.errors[i] * scale
		}

		switch slot.Kind {
		case param.SourceIntensity, param.SampleIntensity:
			r.IntensitySum += p.Fit
			intensityVar += p.FitError * p.FitError
		case param.SampleTau:
			r.AverageLifetime += p.Fit
			tauVar += p.FitError * p.FitError
			taus++
		case param.IRFIntensity:
			r.IRFIntensitySum += p.Fit
		case param.Background:
			r.Background = p.Fit
		}
	}

	r.IntensitySumError = math.Sqrt(intensityVar)
	if taus > 0 {
		r.AverageLifetime /= float64(taus)
		r.AverageLifetimeError = math.Sqrt(tauVar) / float64(taus)
	}

	r.PeakToBackground = peakToBackground(ctx.roi.PeakCounts, r.Background)

	r.ChiSquareStart = loop.chiStart / dof
	r.ChiSquare = loop.chiFinal / dof
	r.Runs = make([]RunRecord, len(loop.runs))
	for i, run := range loop.runs {
		run.ChiSquareStart /= dof
		run.ChiSquareFinal /= dof
		r.Runs[i] = run
	}

	r.Curve = ctx.curve(loop.params)
	values := make([]float64, len(r.Curve))
	predicted := make([]float64, len(r.Curve))
	for i, s := range r.Curve {
		predicted[i] = s.Value
	}
	residual.Weighted(values, ctx.weights, ctx.roi.Y, predicted)

	r.Residuals = make([]spectrum.Sample, len(values))
	for i, v := range values {
		r.Residuals[i] = spectrum.Sample{Channel: r.Curve[i].Channel, Value: v}
	}
	r.ResidualStats = residualstats.Calculate(values)

	var peak int
	r.SpectralCentroid, peak = centroid(r.Curve, res)
	if len(r.Curve) > 0 {
		r.TimeZero = float64(r.Curve[peak].Channel-ctx.roi.Start) * res
	}

	return r
}

func peakToBackground(peak, background float64) float64 {
	if background == 0 {
		return math.Inf(1)
	}
	return (peak - background) / background
}

// centroid returns the first moment in time of curve from its (first)
// maximum onwards, using bin-centre times and trapezoid counts, together
// with the index of that maximum.
func centroid(curve []spectrum.Sample, resolution float64) (float64, int) {
	if len(curve) == 0 {
		return 0, 0
	}

	peak := 0
	for i, s := range curve {
		if s.Value > curve[peak].Value {
			peak = i
		}
	}

	t0 := curve[peak].Channel
	var moment, weight float64
	for i := peak; i < len(curve)-1; i++ {
		t := (float64(curve[i].Channel-t0) + 0.5) * resolution
		c := 0.5 * (curve[i].Value + curve[i+1].Value)
		moment += t * c
		weight += c
	}

	if weight == 0 {
		return 0, peak
	}
	return moment / weight, peak
}
