package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Fatalf("MaxAbsDiff = %v, want 1", d)
	}

	if _, err := MaxAbsDiff([]float64{1}, nil); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestExponentialBinsSum(t *testing.T) {
	bins := ExponentialBins(2000, 10, 1000)

	var sum float64
	for _, v := range bins {
		sum += v
	}

	// Telescoping sum: amplitude·(1 − exp(-n/tau)).
	if math.Abs(sum-1000) > 1e-9 {
		t.Fatalf("sum = %v, want 1000", sum)
	}

	RequireNonIncreasing(t, bins)
}

func TestRoundCounts(t *testing.T) {
	got := RoundCounts([]float64{-0.7, 0.4, 2.5, 9.49})
	want := []int{0, 0, 3, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(7, 2, 64)
	b := DeterministicNoise(7, 2, 64)
	RequireSliceNearlyEqual(t, a, b, 0)

	for i, v := range a {
		if v < -2 || v >= 2 {
			t.Fatalf("index %d: %v out of range", i, v)
		}
	}
}
