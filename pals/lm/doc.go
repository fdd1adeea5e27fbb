// Package lm implements a bounded Levenberg–Marquardt least-squares solver.
//
// Solve minimizes the sum of squared residuals returned by a callback. Each
// parameter may be fixed, bounded from below, bounded from above, or both.
// Fixed parameters are removed from the free set; bounded parameters are
// projected back into their box after every step, and parameters resting on
// a bound with the gradient pointing outwards are held for that step.
//
// The Jacobian is approximated by forward differences. Damped normal
// equations are solved with a Cholesky factorization, and the 1-sigma
// parameter errors are the square roots of the diagonal of (JᵀJ)⁻¹ at the
// solution.
//
// Termination follows the MINPACK/mpfit conventions: positive Status values
// mean success, zero and negative values are errors. Status.String returns
// a human-readable description.
//
// # Usage
//
//	res := lm.Solve(f, p0, m, constraints, lm.DefaultConfig())
//	if !res.Status.OK() {
//		log.Println(res.Status)
//	}
package lm
