package fit

import (
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-pals/pals/lm"
	"github.com/cwbudde/algo-pals/pals/spectrum"
	residualstats "github.com/cwbudde/algo-pals/stats/residual"
)

// Result is the outcome of one fit. Times are in the units of the channel
// resolution (typically ps). Chi-square values are reduced by DOF.
type Result struct {
	ID        uuid.UUID
	Digest    uint64 // spectrum digest
	Timestamp time.Time

	State      State
	Status     lm.Status
	StatusText string
	Iterations int // iterations of the last run
	Runs       []RunRecord

	ChiSquareStart float64
	ChiSquare      float64
	DOF            int

	Background           float64
	AverageLifetime      float64 // unweighted mean of the sample lifetimes
	AverageLifetimeError float64
	IntensitySum         float64 // source and sample intensities
	IntensitySumError    float64
	IRFIntensitySum      float64
	PeakToBackground     float64
	SpectralCentroid     float64
	TimeZero             float64
	CountsInROI          int

	Curve         []spectrum.Sample
	Residuals     []spectrum.Sample // weighted, observed minus model
	ResidualStats residualstats.Stats
}

// OK reports whether the fit ended without a solver error.
func (r *Result) OK() bool {
	return r.State != StateSolverError
}

// ChiSquareHistory returns the reduced final chi-square of every accepted
// run, in run order.
func (r *Result) ChiSquareHistory() []float64 {
	out := make([]float64, 0, len(r.Runs))
	for _, run := range r.Runs {
		if !run.Discarded {
			out = append(out, run.ChiSquareFinal)
		}
	}
	return out
}
