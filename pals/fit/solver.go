package fit

import (
	"github.com/cwbudde/algo-pals/pals/lm"
	"github.com/cwbudde/algo-pals/pals/param"
	"github.com/cwbudde/algo-pals/pals/residual"
)

// Outcome is the result of one solver call.
type Outcome struct {
	Status     lm.Status
	Iterations int
	Params     []float64
	Errors     []float64
	Residuals  []float64
}

// Solver minimizes the m residuals of f starting at p. maxIter <= 0 selects
// the solver default. Implementations must not retain f after returning.
type Solver interface {
	Solve(f residual.Func, m int, p []float64, c []param.Constraint, maxIter int) Outcome
}

// LMSolver adapts the bounded Levenberg–Marquardt solver.
type LMSolver struct {
	Config lm.Config
}

// NewLMSolver returns an LMSolver configured by opts.
func NewLMSolver(opts ...lm.Option) *LMSolver {
	return &LMSolver{Config: lm.ApplyOptions(opts...)}
}

// Solve implements Solver.
func (s *LMSolver) Solve(f residual.Func, m int, p []float64, c []param.Constraint, maxIter int) Outcome {
	cfg := s.Config
	if maxIter > 0 {
		cfg.MaxIterations = maxIter
	}

	cons := make([]lm.Constraint, len(c))
	for i, k := range c {
		cons[i] = lm.Constraint(k)
	}

	res := lm.Solve(lm.Func(f), p, m, cons, cfg)

	return Outcome{
		Status:     res.Status,
		Iterations: res.Iterations,
		Params:     res.Params,
		Errors:     res.Errors,
		Residuals:  res.Residuals,
	}
}
