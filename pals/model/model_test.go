package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pals/internal/testutil"
	"github.com/cwbudde/algo-pals/pals/param"
)

func TestBinIntegratesToOne(t *testing.T) {
	for _, tc := range []struct{ tau, sigma, mu float64 }{
		{8, 5.5, 0},
		{2, 1, 30},
		{40, 12, -3},
	} {
		var sum float64
		for x := -200.0; x < 2000; x++ {
			sum += Bin(x, x+1, tc.tau, tc.sigma, tc.mu)
		}

		require.InDelta(t, 1.0, sum, 1e-9, "tau=%v sigma=%v mu=%v", tc.tau, tc.sigma, tc.mu)
	}
}

func TestBinNarrowKernelIsExponential(t *testing.T) {
	const tau = 7.0

	want := testutil.ExponentialBins(100, tau, 1)
	got := make([]float64, len(want))
	for i := range got {
		x := float64(i)
		got[i] = Bin(x, x+1, tau, 1e-4, 0)
	}

	// Half of the kernel falls before channel 0, so the first bin is short.
	testutil.RequireSliceNearlyEqual(t, got[1:], want[1:], 1e-9)
	require.Less(t, got[0], want[0])
}

func TestBinSymmetricAroundShift(t *testing.T) {
	// Moving the kernel centre moves the curve by the same amount.
	a := Bin(10, 11, 6, 3, 0)
	b := Bin(15, 16, 6, 3, 5)
	require.InDelta(t, a, b, 1e-14)
}

func layoutFor(t *testing.T, set *param.Set) param.Layout {
	t.Helper()
	l, err := param.NewLayout(set)
	require.NoError(t, err)
	return l
}

func TestDecode(t *testing.T) {
	set := param.NewSet()
	set.Source.AddDecay(param.Value(1), param.Value(2))
	set.Sample.AddDecay(param.Value(3), param.Value(4))
	set.IRF.AddGaussian(param.Value(5), param.Value(6), param.Value(7))

	l := layoutFor(t, set)
	c := Decode(l, []float64{16, 0.1, 8, 0.9, 9.2, 0.5, 1, 5})

	require.Equal(t, []Decay{{Tau: 16, Intensity: 0.1}, {Tau: 8, Intensity: 0.9}}, c.Decays)
	require.Len(t, c.Kernels, 1)
	require.InDelta(t, 9.2/FWHMToSigma, c.Kernels[0].Sigma, 1e-12)
	require.InDelta(t, 9.2, c.Kernels[0].FWHM, 0)
	require.InDelta(t, 0.5, c.Kernels[0].Mu, 0)
	require.InDelta(t, 1.0, c.Kernels[0].Intensity, 0)
	require.InDelta(t, 5.0, c.Background, 0)
}

func TestEvaluateBackgroundOnly(t *testing.T) {
	set := param.NewSet()
	set.Sample.AddDecay(param.Value(8), param.Value(0))
	set.IRF.AddGaussian(param.Value(9), param.Value(0), param.Value(1))

	l := layoutFor(t, set)
	e := &Evaluator{X: []float64{0, 1, 2, 3}, Integral: 1000, Width: 3}

	dst := make([]float64, e.Len())
	e.Evaluate(l, []float64{8, 0, 9, 0, 1, 7}, dst)

	testutil.RequireSliceNearlyEqual(t, dst, []float64{7, 7, 7}, 1e-12)
}

func TestEvaluateScalesByNetIntegral(t *testing.T) {
	set := param.NewSet()
	set.Sample.AddDecay(param.Value(0), param.Value(0))
	set.IRF.AddGaussian(param.Value(0), param.Value(0), param.Value(0))

	l := layoutFor(t, set)

	x := make([]float64, 501)
	for i := range x {
		x[i] = float64(i)
	}

	e := &Evaluator{X: x, Integral: 1e6, Width: 500}
	p := []float64{10, 1, 4, 20, 1, 2}

	dst := make([]float64, e.Len())
	e.Evaluate(l, p, dst)
	testutil.RequireFinite(t, dst)

	var sum float64
	for _, v := range dst {
		sum += v - 2
	}

	// The kernel is far enough inside the ROI that nearly all counts land in it.
	require.InDelta(t, 1e6-2*500, sum, 1)
}

func TestEvaluateIRFWeights(t *testing.T) {
	single := param.NewSet()
	single.Sample.AddDecay(param.Value(0), param.Value(0))
	single.IRF.AddGaussian(param.Value(0), param.Value(0), param.Value(0))

	double := param.NewSet()
	double.Sample.AddDecay(param.Value(0), param.Value(0))
	double.IRF.AddGaussian(param.Value(0), param.Value(0), param.Value(0))
	double.IRF.AddGaussian(param.Value(0), param.Value(0), param.Value(0))

	x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	e := &Evaluator{X: x, Integral: 5000, Width: 12}

	a := make([]float64, e.Len())
	b := make([]float64, e.Len())

	e.Evaluate(layoutFor(t, single), []float64{5, 1, 4, 3, 1, 0}, a)
	// Two identical kernels split 30/70 must reproduce the single kernel.
	e.Evaluate(layoutFor(t, double), []float64{5, 1, 4, 3, 0.3, 4, 3, 0.7, 0}, b)

	testutil.RequireSliceNearlyEqual(t, b, a, 1e-9)
}

func TestCurveChannels(t *testing.T) {
	set := param.NewSet()
	set.Sample.AddDecay(param.Value(0), param.Value(0))
	set.IRF.AddGaussian(param.Value(0), param.Value(0), param.Value(0))

	e := &Evaluator{X: []float64{0, 1, 2}, Integral: 100, Width: 2}
	curve := e.Curve(layoutFor(t, set), []float64{3, 1, 2, 0, 1, 0}, []int{40, 41, 42})

	require.Len(t, curve, 2)
	require.Equal(t, 40, curve[0].Channel)
	require.Equal(t, 41, curve[1].Channel)
	require.Positive(t, curve[0].Value)
	require.False(t, math.IsNaN(curve[1].Value))
}
