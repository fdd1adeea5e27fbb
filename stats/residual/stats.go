package residual

import "math"

// Stats holds residual statistics.
type Stats struct {
	Length       int
	Mean         float64
	RMS          float64
	Max          float64
	MaxPos       int
	Min          float64
	MinPos       int
	Variance     float64
	Skewness     float64
	Kurtosis     float64 // excess
	SignChanges  int
	Positive     int
	Negative     int
	RunsZ        float64 // Wald–Wolfowitz z-score of the sign sequence
	DurbinWatson float64
}

// Calculate computes all statistics in a single pass using Welford's online
// algorithm for the higher-order moments. Exact zeros do not count as a sign.
func Calculate(r []float64) Stats {
	n := len(r)
	if n == 0 {
		return Stats{}
	}

	var (
		mean, m2, m3, m4 float64
		sumSq, diffSq    float64
		maxVal, minVal   = r[0], r[0]
		maxPos, minPos   int
		pos, neg         int
		changes          int
		lastSign         int
	)

	for i, x := range r {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		sumSq += x * x
		if i > 0 {
			d := x - r[i-1]
			diffSq += d * d
		}

		if x > maxVal {
			maxVal, maxPos = x, i
		}
		if x < minVal {
			minVal, minPos = x, i
		}

		sign := 0
		switch {
		case x > 0:
			sign = 1
			pos++
		case x < 0:
			sign = -1
			neg++
		}
		if sign != 0 {
			if lastSign != 0 && sign != lastSign {
				changes++
			}
			lastSign = sign
		}
	}

	nf := float64(n)
	st := Stats{
		Length:      n,
		Mean:        mean,
		RMS:         math.Sqrt(sumSq / nf),
		Max:         maxVal,
		MaxPos:      maxPos,
		Min:         minVal,
		MinPos:      minPos,
		Variance:    m2 / nf,
		SignChanges: changes,
		Positive:    pos,
		Negative:    neg,
		RunsZ:       RunsZ(pos, neg, changes+1),
	}

	if st.Variance > 0 {
		st.Skewness = (m3 / nf) / (st.Variance * math.Sqrt(st.Variance))
		st.Kurtosis = (m4/nf)/(st.Variance*st.Variance) - 3
	}
	if sumSq > 0 {
		st.DurbinWatson = diffSq / sumSq
	}

	return st
}

// RunsZ returns the Wald–Wolfowitz z-score for the observed number of runs
// in a sequence of pos positive and neg negative signs. It returns 0 when
// either count is zero.
func RunsZ(pos, neg, runs int) float64 {
	if pos == 0 || neg == 0 {
		return 0
	}

	p, q := float64(pos), float64(neg)
	n := p + q
	expected := 2*p*q/n + 1
	variance := 2 * p * q * (2*p*q - n) / (n * n * (n - 1))
	if variance <= 0 {
		return 0
	}

	return (float64(runs) - expected) / math.Sqrt(variance)
}
