// Package model evaluates the lifetime spectrum model: a sum of exponential
// decays convolved with Gaussian instrument-response components plus a
// constant background.
//
// The convolution is done in closed form (Kirkegaard–Eldrup). For a
// normalized decay exp(-t/τ)/τ and a Gaussian of width σ centred at μ, the
// counts collected in the channel interval [x0, x1] are
//
//	½·[ y(x0) − y(x1) − erf((x0−μ)/σ) + erf((x1−μ)/σ) ]
//	y(x) = exp(−(x−μ−σ²/4τ)/τ) · erfc(σ/2τ − (x−μ)/σ)
//
// where σ = FWHM/(2·sqrt(ln 2)). All quantities are in channel units.
//
// Evaluate is the single model function used for the start chi-square, the
// per-run chi-square, the preview curve and the final fitted curve.
package model
