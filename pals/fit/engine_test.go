package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pals/internal/testutil"
	"github.com/cwbudde/algo-pals/pals/lm"
	"github.com/cwbudde/algo-pals/pals/model"
	"github.com/cwbudde/algo-pals/pals/param"
	"github.com/cwbudde/algo-pals/pals/simulate"
	"github.com/cwbudde/algo-pals/pals/spectrum"
)

func TestFitInputErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(j *Job) *Job
		want   error
	}{
		{"nil job", func(*Job) *Job { return nil }, ErrNilJob},
		{"empty spectrum", func(j *Job) *Job { j.Spectrum = nil; return j }, ErrEmptySpectrum},
		{"nil params", func(j *Job) *Job { j.Params = nil; return j }, param.ErrNilSet},
		{"inverted roi", func(j *Job) *Job { j.Settings.StopChannel = 0; return j }, spectrum.ErrInvalidROI},
		{"roi outside data", func(j *Job) *Job { j.Settings.StartChannel, j.Settings.StopChannel = 500, 600; return j }, spectrum.ErrInvalidROI},
		{"resolution", func(j *Job) *Job { j.Settings.ChannelResolution = 0; return j }, param.ErrInvalidResolution},
		{"no irf", func(j *Job) *Job { j.Params.IRF.Params = nil; return j }, param.ErrNoIRF},
		{"conflict", func(j *Job) *Job {
			j.Params.Sample.Params[1] = j.Params.Sample.Params[1].AsFixed().WithLower(0)
			return j
		}, param.ErrConflict},
		{"too few channels", func(j *Job) *Job { j.Settings.StopChannel = 2; return j }, ErrTooFewChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := tt.mutate(singleJob())
			res, err := NewEngine().Fit(job)
			require.Nil(t, res)
			require.True(t, errors.Is(err, tt.want), "got %v", err)

			if job != nil && job.Params != nil {
				for _, g := range job.Params.Groups() {
					for _, p := range g.Params {
						require.Zero(t, p.Fit)
						require.Zero(t, p.FitError)
					}
				}
			}
		})
	}
}

func TestFitRecoversSingleExponential(t *testing.T) {
	job := singleJob()
	res, err := NewEngine().Fit(job)
	require.NoError(t, err)

	require.True(t, res.Status.OK(), res.StatusText)
	require.Equal(t, StateConverged, res.State)

	tau := job.Params.Sample.Params[0]
	intensity := job.Params.Sample.Params[1]
	require.InDelta(t, 300, tau.Fit, 0.5)
	require.InDelta(t, 1, intensity.Fit, 0.01)
	require.Positive(t, tau.FitError)

	require.InDelta(t, 300, res.AverageLifetime, 0.5)
	require.InDelta(t, tau.FitError, res.AverageLifetimeError, 1e-12)
	require.InDelta(t, intensity.Fit, res.IntensitySum, 1e-12)
	require.InDelta(t, 1, res.IRFIntensitySum, 1e-12)

	require.Equal(t, 400-1-2, res.DOF)
	require.Len(t, res.Curve, 399)
	require.Len(t, res.Residuals, 399)
	require.Equal(t, 399, res.ResidualStats.Length)
	require.True(t, math.IsInf(res.PeakToBackground, 1))
	require.Equal(t, job.Spectrum.Digest(), res.Digest)
	require.NotZero(t, res.ID)
	require.False(t, res.Timestamp.IsZero())

	// The curve peaks shortly after mu = 500 ps; the tail centroid of a
	// 300 ps decay lies near tau.
	require.InDelta(t, 500, res.TimeZero, 100)
	require.InDelta(t, 300, res.SpectralCentroid, 60)

	testutil.RequireNonIncreasing(t, res.ChiSquareHistory())
}

func TestFitFixedParametersKeepStart(t *testing.T) {
	job := singleJob()
	_, err := NewEngine().Fit(job)
	require.NoError(t, err)

	for _, p := range job.Params.IRF.Params {
		require.Equal(t, p.Start, p.Fit, p.Name)
		require.Zero(t, p.FitError, p.Name)
	}
	bkg := job.Params.Background.Params[0]
	require.Equal(t, bkg.Start, bkg.Fit)
	require.Zero(t, bkg.FitError)
}

func TestFitRestartFromConvergedStopsAfterOneRun(t *testing.T) {
	eng := NewEngine()
	job := singleJob()
	_, err := eng.Fit(job)
	require.NoError(t, err)

	for _, g := range job.Params.Groups() {
		for i := range g.Params {
			g.Params[i].Start = g.Params[i].Fit
		}
	}

	res, err := eng.Fit(job)
	require.NoError(t, err)
	require.Equal(t, StateConverged, res.State)
	require.Len(t, res.Runs, 1)
}

func TestFitRunCapOne(t *testing.T) {
	res, err := NewEngine(WithMaxRuns(1)).Fit(singleJob())
	require.NoError(t, err)
	require.Len(t, res.Runs, 1)
	require.Contains(t, []State{StateConverged, StateMaxRunsReached}, res.State)
	require.True(t, res.Status.OK())
}

func TestFitTwoIRFIntensitiesSumToOne(t *testing.T) {
	spec := modelSpectrum(400, 1e6, 0,
		[]model.Decay{{Tau: 300, Intensity: 1}},
		[]model.Kernel{
			{FWHM: 150, Mu: 500, Intensity: 0.3},
			{FWHM: 300, Mu: 500, Intensity: 0.7},
		},
	)

	set := param.NewSet()
	set.Sample.AddDecay(param.Value(280).WithBounds(50, 1000), param.Value(1).AsFixed())
	set.IRF.AddGaussian(param.Value(150).AsFixed(), param.Value(500).AsFixed(), param.Value(0.5).WithBounds(0, 1))
	set.IRF.AddGaussian(param.Value(300).AsFixed(), param.Value(500).AsFixed(), param.Value(0.5).WithBounds(0, 1))

	job := &Job{
		Spectrum: spec,
		Settings: Settings{StartChannel: 0, StopChannel: 399, ChannelResolution: testResolution},
		Params:   set,
	}

	res, err := NewEngine().Fit(job)
	require.NoError(t, err)
	require.True(t, res.Status.OK(), res.StatusText)

	require.InDelta(t, 1, res.IRFIntensitySum, 1e-3)
	require.InDelta(t, 0.3, set.IRF.Params[2].Fit, 0.02)
	require.InDelta(t, 0.7, set.IRF.Params[5].Fit, 0.02)
	require.InDelta(t, 300, set.Sample.Params[0].Fit, 1)
}

func TestFitSimulatedSpectrum(t *testing.T) {
	spec, err := simulate.Generate(simulate.ApplyOptions(simulate.WithSeed(2024)))
	require.NoError(t, err)

	set := param.NewSet()
	set.Source.AddDecay(param.Value(400).AsFixed().Named("source", "ts"), param.Value(0.1).WithBounds(0, 1))
	set.Sample.AddDecay(param.Value(200).WithBounds(50, 1000).Named("bulk", "t1"), param.Value(0.9).WithBounds(0, 2))
	set.IRF.AddGaussian(param.Value(230).AsFixed(), param.Value(0).AsFixed(), param.Value(1).AsFixed())
	set.Background.Params[0].Start = 5

	job := &Job{
		Spectrum: spec,
		Settings: Settings{StartChannel: 0, StopChannel: 999, ChannelResolution: 25},
		Params:   set,
	}

	res, err := NewEngine().Fit(job)
	require.NoError(t, err)
	require.True(t, res.Status.OK(), res.StatusText)

	require.InDelta(t, 180, set.Sample.Params[0].Fit, 10)
	require.InDelta(t, 1, res.ChiSquare, 0.3)
	require.Equal(t, 400.0, set.Source.Params[0].Fit)
	require.InDelta(t, 5, res.Background, 1e-12)
	require.Greater(t, res.PeakToBackground, 100.0)
	testutil.RequireNonIncreasing(t, res.ChiSquareHistory())
}

func TestStartDeliversCompletion(t *testing.T) {
	release := make(chan struct{})
	eng := NewEngine(WithSolver(&blockingSolver{release: release, next: NewLMSolver()}))

	done, err := eng.Start(singleJob())
	require.NoError(t, err)
	require.True(t, eng.Busy())

	_, err = eng.Start(singleJob())
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	c, ok := <-done
	require.True(t, ok)
	require.NoError(t, c.Err)
	require.NotNil(t, c.Result)
	require.True(t, c.Result.Status.OK())
	require.False(t, eng.Busy())

	_, ok = <-done
	require.False(t, ok)
}

func TestStartReportsInputError(t *testing.T) {
	done, err := NewEngine().Start(nil)
	require.NoError(t, err)

	c := <-done
	require.ErrorIs(t, c.Err, ErrNilJob)
	require.Nil(t, c.Result)
}

func TestPreview(t *testing.T) {
	job := singleJob()
	curve, err := NewEngine().Preview(job)
	require.NoError(t, err)
	require.Len(t, curve, 399)

	roi, err := job.Spectrum.Extract(0, 399)
	require.NoError(t, err)
	asm, err := param.Assemble(job.Params, testResolution)
	require.NoError(t, err)

	want := make([]float64, 399)
	model.NewEvaluator(roi).Evaluate(asm.Layout, asm.Values, want)
	for i, s := range curve {
		require.Equal(t, i, s.Channel)
		require.InDelta(t, want[i], s.Value, 1e-9)
	}

	// Preview never writes results.
	require.Zero(t, job.Params.Sample.Params[0].Fit)
}

func TestPreviewInputError(t *testing.T) {
	_, err := NewEngine().Preview(&Job{})
	require.ErrorIs(t, err, ErrEmptySpectrum)
}

func TestLMSolverIterationCap(t *testing.T) {
	s := NewLMSolver()
	f := func(p, dst []float64) error {
		for i := range dst {
			x := float64(i)
			dst[i] = p[0]*math.Exp(-x/p[1]) - 100*math.Exp(-x/7)
		}
		return nil
	}

	out := s.Solve(f, 40, []float64{10, 30}, make([]param.Constraint, 2), 1)
	require.Equal(t, 1, out.Iterations)
	require.Equal(t, lm.StatusMaxIterations, out.Status)
	require.Len(t, out.Errors, 2)
}

func TestCentroid(t *testing.T) {
	curve := []spectrum.Sample{{Channel: 10, Value: 1}, {Channel: 11, Value: 1}, {Channel: 12, Value: 1}}
	c, peak := centroid(curve, 2)
	require.Equal(t, 0, peak)
	require.InDelta(t, 2, c, 1e-12)

	c, peak = centroid([]spectrum.Sample{{Channel: 0, Value: 0}, {Channel: 1, Value: 4}}, 1)
	require.Equal(t, 1, peak)
	require.Zero(t, c)

	c, _ = centroid(nil, 1)
	require.Zero(t, c)
}

func TestPeakToBackground(t *testing.T) {
	require.InDelta(t, 9, peakToBackground(100, 10), 1e-12)
	require.True(t, math.IsInf(peakToBackground(100, 0), 1))
}
