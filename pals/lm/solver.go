package lm

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	machEps   = 2.220446049250313e-16
	minLambda = 1e-15
	maxLambda = 1e16
)

// Func fills residuals for the parameter vector p. len(residuals) is the m
// passed to Solve. A non-nil error aborts the solve.
type Func func(p, residuals []float64) error

// Constraint describes how one parameter may move.
type Constraint struct {
	Fixed    bool
	HasLower bool
	Lower    float64
	HasUpper bool
	Upper    float64
}

// Result is the outcome of Solve.
type Result struct {
	Status         Status
	Err            error // callback error, if any
	Iterations     int
	Evaluations    int
	Free           int
	Params         []float64
	Errors         []float64 // 1-sigma; 0 for fixed parameters
	Residuals      []float64
	ChiSquareStart float64
	ChiSquare      float64
}

type solver struct {
	f      Func
	cfg    Config
	c      []Constraint
	free   []int
	m      int
	x      []float64
	r      []float64
	trial  []float64
	xTrial []float64
	cols   [][]float64
	chi2   float64
	lambda float64
	evals  int
	err    error
}

// Solve minimizes Σ r_i(p)² starting from p0 with m residuals. constraints
// may be nil (all parameters free); otherwise it must match len(p0).
func Solve(f Func, p0 []float64, m int, constraints []Constraint, cfg Config) Result {
	res := Result{
		Params: append([]float64(nil), p0...),
		Errors: make([]float64, len(p0)),
	}

	switch {
	case f == nil:
		res.Status = StatusNoFunction
		return res
	case m <= 0:
		res.Status = StatusNoData
		return res
	case len(p0) == 0, constraints != nil && len(constraints) != len(p0):
		res.Status = StatusBadInput
		return res
	}

	if constraints == nil {
		constraints = make([]Constraint, len(p0))
	}

	s := &solver{
		f:      f,
		cfg:    cfg.normalized(),
		c:      constraints,
		m:      m,
		x:      res.Params,
		r:      make([]float64, m),
		trial:  make([]float64, m),
		xTrial: make([]float64, len(p0)),
	}

	if st := s.checkConstraints(); st != 0 {
		res.Status = st
		return res
	}
	res.Free = len(s.free)
	if m < len(s.free) {
		res.Status = StatusDegreesOfFree
		return res
	}

	chi2, ok := s.eval(s.x, s.r)
	if !ok {
		res.Status = s.failure()
		res.Err = s.err
		return res
	}
	s.chi2 = chi2
	res.ChiSquareStart = chi2
	s.lambda = s.cfg.Lambda
	s.cols = make([][]float64, len(s.free))
	for j := range s.cols {
		s.cols[j] = make([]float64, m)
	}

	res.Status, res.Iterations = s.iterate()
	if s.err != nil {
		res.Err = s.err
	}

	if res.Status.OK() {
		s.errors(res.Errors)
	}

	res.Evaluations = s.evals
	res.Residuals = s.r
	res.ChiSquare = s.chi2
	return res
}

func (s *solver) checkConstraints() Status {
	for i, c := range s.c {
		if c.HasLower && c.HasUpper && c.Lower > c.Upper {
			return StatusBadConstraints
		}
		if c.Fixed {
			continue
		}
		if (c.HasLower && s.x[i] < c.Lower) || (c.HasUpper && s.x[i] > c.Upper) {
			return StatusInitBounds
		}
		s.free = append(s.free, i)
	}
	if len(s.free) == 0 {
		return StatusNoFree
	}
	return 0
}

func (s *solver) failure() Status {
	if s.err != nil {
		return StatusBadInput
	}
	return StatusNonFinite
}

// eval computes residuals for x into dst and returns the chi-square.
func (s *solver) eval(x, dst []float64) (float64, bool) {
	s.evals++
	if err := s.f(x, dst); err != nil {
		s.err = err
		return 0, false
	}
	chi2 := floats.Dot(dst, dst)
	if math.IsNaN(chi2) || math.IsInf(chi2, 0) {
		return 0, false
	}
	return chi2, true
}

// jacobian fills s.cols by forward differences at s.x.
func (s *solver) jacobian() bool {
	step := math.Sqrt(math.Max(s.cfg.Epsfcn, machEps))
	copy(s.xTrial, s.x)
	for j, idx := range s.free {
		h := step * math.Abs(s.x[idx])
		if h == 0 {
			h = step
		}
		if c := s.c[idx]; c.HasUpper && s.x[idx]+h > c.Upper {
			h = -h
		}
		s.xTrial[idx] = s.x[idx] + h
		if _, ok := s.eval(s.xTrial, s.trial); !ok {
			return false
		}
		s.xTrial[idx] = s.x[idx]

		col := s.cols[j]
		for i := range col {
			col[i] = (s.trial[i] - s.r[i]) / h
		}
	}
	return true
}

func (s *solver) iterate() (Status, int) {
	n := len(s.free)
	g := make([]float64, n)

	for iter := 1; ; iter++ {
		if !s.jacobian() {
			return s.failure(), iter - 1
		}

		fnorm := math.Sqrt(s.chi2)
		if fnorm == 0 {
			return StatusGtol, iter
		}

		gmax := 0.0
		for j, col := range s.cols {
			g[j] = floats.Dot(col, s.r)
			if cn := floats.Norm(col, 2); cn > 0 {
				gmax = math.Max(gmax, math.Abs(g[j])/(cn*fnorm))
			}
		}
		if gmax <= s.cfg.Gtol {
			return StatusGtol, iter
		}
		if gmax <= machEps {
			return StatusGtolTooSmall, iter
		}

		active := s.unpegged(g)
		if len(active) == 0 {
			return StatusXtol, iter
		}

		if st := s.step(g, active); st != 0 {
			return st, iter
		}
		if iter >= s.cfg.MaxIterations {
			return StatusMaxIterations, iter
		}
	}
}

// unpegged returns the free indices that are not resting on a bound with
// the descent direction pointing outside the box.
func (s *solver) unpegged(g []float64) []int {
	active := make([]int, 0, len(s.free))
	for j, idx := range s.free {
		c := s.c[idx]
		if c.HasLower && s.x[idx] <= c.Lower && g[j] > 0 {
			continue
		}
		if c.HasUpper && s.x[idx] >= c.Upper && g[j] < 0 {
			continue
		}
		active = append(active, j)
	}
	return active
}

// step searches the damping factor until a step lowers chi-square or a
// termination criterion is met. It returns 0 to continue iterating.
func (s *solver) step(g []float64, active []int) Status {
	k := len(active)
	a := mat.NewSymDense(k, nil)
	for p, jp := range active {
		for q := p; q < k; q++ {
			a.SetSym(p, q, floats.Dot(s.cols[jp], s.cols[active[q]]))
		}
	}

	b := mat.NewVecDense(k, nil)
	for p, jp := range active {
		b.SetVec(p, -g[jp])
	}

	damped := mat.NewSymDense(k, nil)
	delta := make([]float64, len(s.free))
	lin := make([]float64, s.m)
	var (
		chol mat.Cholesky
		d    mat.VecDense
	)

	for {
		damped.CopySym(a)
		for p := range k {
			diag := a.At(p, p)
			if diag == 0 {
				diag = 1
			}
			damped.SetSym(p, p, a.At(p, p)+s.lambda*diag)
		}

		solved := chol.Factorize(damped) && chol.SolveVecTo(&d, b) == nil
		if !solved {
			s.lambda *= 10
			if s.lambda > maxLambda {
				return StatusFtolTooSmall
			}
			continue
		}

		copy(s.xTrial, s.x)
		for i := range delta {
			delta[i] = 0
		}
		for p, jp := range active {
			idx := s.free[jp]
			s.xTrial[idx] = s.project(idx, s.x[idx]+d.AtVec(p))
			delta[jp] = s.xTrial[idx] - s.x[idx]
		}

		stepNorm := floats.Norm(delta, 2)
		xnorm := s.freeNorm()
		small := stepNorm <= s.cfg.Xtol*(xnorm+s.cfg.Xtol)

		copy(lin, s.r)
		for j, col := range s.cols {
			if delta[j] != 0 {
				floats.AddScaled(lin, delta[j], col)
			}
		}
		predicted := (s.chi2 - floats.Dot(lin, lin)) / s.chi2

		chi2, ok := s.eval(s.xTrial, s.trial)
		if s.err != nil {
			return StatusBadInput
		}

		if ok && chi2 < s.chi2 {
			actual := (s.chi2 - chi2) / s.chi2
			copy(s.x, s.xTrial)
			s.r, s.trial = s.trial, s.r
			s.chi2 = chi2
			s.lambda = math.Max(s.lambda/10, minLambda)

			ftolOK := actual <= s.cfg.Ftol && math.Abs(predicted) <= s.cfg.Ftol
			switch {
			case ftolOK && small:
				return StatusFtolXtol
			case ftolOK:
				return StatusFtol
			case small:
				return StatusXtol
			case actual <= machEps && math.Abs(predicted) <= machEps:
				return StatusFtolTooSmall
			}
			return 0
		}

		if small {
			if stepNorm <= machEps*xnorm {
				return StatusXtolTooSmall
			}
			return StatusXtol
		}

		s.lambda *= 10
		if s.lambda > maxLambda {
			return StatusFtolTooSmall
		}
	}
}

func (s *solver) project(idx int, v float64) float64 {
	c := s.c[idx]
	if c.HasLower && v < c.Lower {
		v = c.Lower
	}
	if c.HasUpper && v > c.Upper {
		v = c.Upper
	}
	return v
}

func (s *solver) freeNorm() float64 {
	sum := 0.0
	for _, idx := range s.free {
		sum += s.x[idx] * s.x[idx]
	}
	return math.Sqrt(sum)
}

// errors writes sqrt(diag((JᵀJ)⁻¹)) for the free parameters into dst.
// dst is left at zero when the Jacobian is singular.
func (s *solver) errors(dst []float64) {
	if !s.jacobian() {
		return
	}

	n := len(s.free)
	a := mat.NewSymDense(n, nil)
	for p := range n {
		for q := p; q < n; q++ {
			a.SetSym(p, q, floats.Dot(s.cols[p], s.cols[q]))
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(a) {
		return
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return
	}

	for p, idx := range s.free {
		if v := cov.At(p, p); v > 0 {
			dst[idx] = math.Sqrt(v)
		}
	}
}
