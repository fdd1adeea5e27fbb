package fit

import (
	"fmt"

	"github.com/cwbudde/algo-pals/pals/model"
	"github.com/cwbudde/algo-pals/pals/param"
	"github.com/cwbudde/algo-pals/pals/residual"
	"github.com/cwbudde/algo-pals/pals/spectrum"
)

// fitContext holds everything derived from a job for the duration of one
// fit. It is dropped when the fit returns.
type fitContext struct {
	settings Settings
	roi      spectrum.ROI
	asm      param.Assembly
	eval     *model.Evaluator
	weights  []float64
	scratch  []float64
	f        residual.Func
	m        int // residual count, data plus normalization
	dof      int
}

func newFitContext(job *Job) (*fitContext, error) {
	if job == nil {
		return nil, ErrNilJob
	}
	if len(job.Spectrum) == 0 {
		return nil, ErrEmptySpectrum
	}
	if job.Params == nil {
		return nil, fmt.Errorf("fit: %w", param.ErrNilSet)
	}

	s := job.Settings
	roi, err := job.Spectrum.Extract(s.StartChannel, s.StopChannel)
	if err != nil {
		return nil, fmt.Errorf("fit: roi [%d, %d]: %w", s.StartChannel, s.StopChannel, err)
	}

	asm, err := param.Assemble(job.Params, s.ChannelResolution)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	eval := model.NewEvaluator(roi)
	weights := s.Weighting.Weights(roi.Y)

	return &fitContext{
		settings: s,
		roi:      roi,
		asm:      asm,
		eval:     eval,
		weights:  weights,
		scratch:  make([]float64, eval.Len()),
		f:        residual.NewFunc(eval, asm.Layout, roi.Y, weights),
		m:        residual.Count(eval),
		dof:      eval.Len() - asm.Free(),
	}, nil
}

// chiSquare evaluates the weighted data chi-square of p through the model.
func (c *fitContext) chiSquare(p []float64) float64 {
	c.eval.Evaluate(c.asm.Layout, p, c.scratch)
	return residual.ChiSquare(c.roi.Y, c.scratch, c.weights)
}

// curve returns the model values of p paired with their channels.
func (c *fitContext) curve(p []float64) []spectrum.Sample {
	return c.eval.Curve(c.asm.Layout, p, c.roi.Channels)
}
