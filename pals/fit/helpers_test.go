package fit

import (
	"math"
	"slices"
	"sync"

	"github.com/cwbudde/algo-pals/pals/lm"
	"github.com/cwbudde/algo-pals/pals/model"
	"github.com/cwbudde/algo-pals/pals/param"
	"github.com/cwbudde/algo-pals/pals/residual"
	"github.com/cwbudde/algo-pals/pals/spectrum"
)

const testResolution = 25.0

// modelSpectrum returns rounded closed-form model counts on channels
// 0..n-1. Times are in ps.
func modelSpectrum(n int, total, background float64, decays []model.Decay, kernels []model.Kernel) spectrum.Spectrum {
	counts := make([]int, n)
	for i := range counts {
		v := 0.0
		for _, k := range kernels {
			sigma := k.FWHM / testResolution / model.FWHMToSigma
			g := 0.0
			for _, d := range decays {
				g += d.Intensity * model.Bin(float64(i), float64(i+1), d.Tau/testResolution, sigma, k.Mu/testResolution)
			}
			v += k.Intensity * g
		}
		counts[i] = int(math.Round(total*v + background))
	}
	return spectrum.FromCounts(counts)
}

// singleJob is a one-component spectrum with tau 300 ps behind a narrow,
// fixed IRF at 500 ps. Vector layout: [tau, I, fwhm, mu, I_irf, bkg].
func singleJob() *Job {
	spec := modelSpectrum(400, 1e6, 0,
		[]model.Decay{{Tau: 300, Intensity: 1}},
		[]model.Kernel{{FWHM: 100, Mu: 500, Intensity: 1}},
	)

	set := param.NewSet()
	set.Sample.AddDecay(
		param.Value(250).WithBounds(50, 1000).Named("tau1", "t1"),
		param.Value(0.8).Named("I1", "I1"),
	)
	set.IRF.AddGaussian(
		param.Value(100).AsFixed().Named("fwhm", "F"),
		param.Value(500).AsFixed().Named("mu", "mu"),
		param.Value(1).AsFixed().Named("irf I", "Ig"),
	)

	return &Job{
		Spectrum: spec,
		Settings: Settings{StartChannel: 0, StopChannel: 399, ChannelResolution: testResolution},
		Params:   set,
	}
}

// truth is the channel-unit vector that generated singleJob.
func truth() []float64 {
	return []float64{300 / testResolution, 1, 100 / testResolution, 500 / testResolution, 1, 0}
}

// step is one scripted solver reply computed from the start vector.
type step func(p []float64) Outcome

func moveTo(target []float64, status lm.Status) step {
	return func(p []float64) Outcome {
		return Outcome{Status: status, Iterations: 3, Params: slices.Clone(target), Errors: make([]float64, len(target))}
	}
}

func withTau(tau float64, status lm.Status) step {
	v := truth()
	v[0] = tau
	return moveTo(v, status)
}

// scriptedSolver replays steps in order, repeating the last one.
type scriptedSolver struct {
	mu    sync.Mutex
	steps []step
	calls int
	f     residual.Func
	m     int
	iters []int
}

func (s *scriptedSolver) Solve(f residual.Func, m int, p []float64, c []param.Constraint, maxIter int) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.f, s.m = f, m
	s.iters = append(s.iters, maxIter)
	st := s.steps[min(s.calls, len(s.steps)-1)]
	s.calls++
	return st(p)
}

// blockingSolver waits for release before delegating.
type blockingSolver struct {
	release chan struct{}
	next    Solver
}

func (s *blockingSolver) Solve(f residual.Func, m int, p []float64, c []param.Constraint, maxIter int) Outcome {
	<-s.release
	return s.next.Solve(f, m, p, c, maxIter)
}
