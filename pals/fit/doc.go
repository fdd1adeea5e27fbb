// Package fit drives the positron-lifetime fit: it assembles the parameter
// vector, runs an injectable least-squares solver repeatedly until the
// chi-square stops improving, and writes the fitted values, their errors
// and derived physical quantities back.
//
// A fit is described by a [Job]: the raw spectrum, the ROI and channel
// settings, and the parameter set. [Engine.Fit] runs synchronously,
// [Engine.Start] runs on its own goroutine and reports a single
// [Completion], and [Engine.Preview] evaluates the start values without
// fitting.
//
// The run loop is an explicit state machine:
//
//	StateInit -> StateSolving -> StateConverged
//	                          -> StateMaxRunsReached
//	                          -> StateSolverError
//
// A run converges when it improves the raw chi-square by no more than the
// threshold (default 1e-5). A run that makes the chi-square worse is
// discarded and the loop stops. Chi-square values are reduced by the degrees
// of freedom once the loop ends.
//
// # Usage
//
//	set := param.NewSet()
//	set.Sample.AddDecay(param.Value(200).WithBounds(50, 1000), param.Value(1))
//	set.IRF.AddGaussian(param.Value(230).AsFixed(), param.Value(0).AsFixed(), param.Value(1).AsFixed())
//
//	eng := fit.NewEngine(fit.WithLogger(slog.Default()))
//	res, err := eng.Fit(&fit.Job{
//		Spectrum: spec,
//		Settings: fit.Settings{StartChannel: 0, StopChannel: 999, ChannelResolution: 25},
//		Params:   set,
//	})
package fit
