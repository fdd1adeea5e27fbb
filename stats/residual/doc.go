// Package residual computes summary statistics of a fit residual series.
//
// Calculate makes a single pass over the weighted residuals and returns
// moment statistics (Welford), extrema, the number of sign changes, the
// Wald–Wolfowitz runs-test z-score and the Durbin–Watson statistic. For a
// good fit the residuals scatter around zero with unit variance, the runs
// z-score stays within a few units of zero and Durbin–Watson is close to 2.
//
// # Usage
//
//	st := residual.Calculate(values)
//	fmt.Println(st.RMS, st.RunsZ)
package residual
