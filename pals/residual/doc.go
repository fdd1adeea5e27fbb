// Package residual turns the difference between observed counts and the
// model into statistically weighted residuals for a least-squares solver.
//
// Each channel pair i contributes
//
//	r[i] = w[i]·(y[i] − f[i]),  w[i] = 1/sqrt(y[i]+1)
//
// The +1 keeps empty channels finite. One more residual is appended to pull
// the IRF intensities towards a sum of one:
//
//	r[n] = (ΣI_irf − 1)·NormalizationScale
//
// It is only active with two or more IRF components; with a single
// component it is always zero.
package residual
