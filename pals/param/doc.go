// Package param describes the fit parameters of a lifetime spectrum model and
// assembles them into the flat vector a least-squares solver works on.
//
// Parameters live in four groups: source and sample exponentials as
// (tau, I) pairs, Gaussian instrument-response components as
// (FWHM, mu, I) triples, and a single background parameter. NewLayout turns
// a Set into a list of tagged slots, one per vector element, in the fixed
// order
//
//	[source tau,I]* [sample tau,I]* [IRF FWHM,mu,I]* [background]
//
// Assemble uses the layout to produce start values and per-parameter
// constraints. Time-like values (tau, FWHM, mu) are converted from time units
// to channels by dividing by the channel resolution; intensities and the
// background are left as they are.
//
// # Usage
//
//	set := param.NewSet()
//	set.Sample.AddDecay(param.Value(200).WithBounds(50, 1000), param.Value(0.9))
//	set.IRF.AddGaussian(param.Value(230).AsFixed(), param.Value(0), param.Value(1).AsFixed())
//	set.Background.Params[0] = param.Value(5).AsFixed()
//
//	asm, err := param.Assemble(set, 25)
package param
