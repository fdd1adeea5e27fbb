package fit

import (
	"log/slog"
	"slices"

	"github.com/cwbudde/algo-pals/pals/lm"
)

// RunRecord describes one solver run. Chi-square values are reduced once
// the fit finishes.
type RunRecord struct {
	Index          int
	Iterations     int
	Status         lm.Status
	ChiSquareStart float64
	ChiSquareFinal float64
	Discarded      bool // the run made the chi-square worse and was dropped
}

// runLoop is the state of the repeated-solve loop.
type runLoop struct {
	state      State
	status     lm.Status
	iterations int
	params     []float64
	errors     []float64
	chiStart   float64
	chiFinal   float64
	runs       []RunRecord
}

// drive runs the solver until convergence, the run cap or a solver error.
func (e *Engine) drive(ctx *fitContext) runLoop {
	n := len(ctx.asm.Values)
	loop := runLoop{
		state:  StateInit,
		params: slices.Clone(ctx.asm.Values),
		errors: make([]float64, n),
	}
	loop.chiStart = ctx.chiSquare(loop.params)
	loop.chiFinal = loop.chiStart
	loop.state = StateSolving

	for loop.state == StateSolving {
		start := loop.chiFinal
		out := e.cfg.Solver.Solve(ctx.f, ctx.m, slices.Clone(loop.params), ctx.asm.Constraints, ctx.settings.MaxIterations)

		rec := RunRecord{
			Index:          len(loop.runs),
			Iterations:     out.Iterations,
			Status:         out.Status,
			ChiSquareStart: start,
		}
		loop.status = out.Status
		loop.iterations = out.Iterations

		switch {
		case len(out.Params) != n:
			loop.status = lm.StatusBadInput
			rec.Status = loop.status
			rec.ChiSquareFinal = start
			loop.state = StateSolverError

		case !out.Status.OK():
			copy(loop.params, out.Params)
			loop.errors = sized(out.Errors, n)
			loop.chiFinal = ctx.chiSquare(loop.params)
			rec.ChiSquareFinal = loop.chiFinal
			loop.state = StateSolverError

		default:
			chi := ctx.chiSquare(out.Params)
			rec.ChiSquareFinal = chi
			if !(chi <= start) {
				rec.Discarded = true
				loop.state = StateConverged
				break
			}

			copy(loop.params, out.Params)
			loop.errors = sized(out.Errors, n)
			loop.chiFinal = chi

			switch {
			case start-chi <= e.cfg.Threshold:
				loop.state = StateConverged
			case len(loop.runs)+1 >= e.cfg.MaxRuns:
				loop.state = StateMaxRunsReached
			}
		}

		loop.runs = append(loop.runs, rec)
		e.cfg.Logger.Debug("fit run",
			slog.Int("run", rec.Index),
			slog.Int("status", int(rec.Status)),
			slog.Int("iterations", rec.Iterations),
			slog.Float64("chi2_start", rec.ChiSquareStart),
			slog.Float64("chi2_final", rec.ChiSquareFinal),
			slog.Bool("discarded", rec.Discarded),
			slog.String("state", loop.state.String()),
		)
	}

	return loop
}

// sized returns a copy of v with length n; missing entries are zero.
func sized(v []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, v)
	return out
}
