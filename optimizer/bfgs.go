// SPDX-License-Identifier: MIT

package optimizer

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// BFGS is the quasi-Newton method with a Wolfe line search. When the
// Objective has no Grad, the gradient is approximated with central
// differences (fd.Central, step GradStep or the formula default).
type BFGS struct {
	MaxIterations  int
	MaxEvaluations int
	Tolerance      float64
	GradStep       float64
}

var _ Minimizer = BFGS{}

// Minimize implements Minimizer.
func (b BFGS) Minimize(obj Objective, x0 []float64) (Result, error) {
	const tag = "BFGS.Minimize"
	if _, err := validateStart(tag, obj, x0); err != nil {
		return Result{}, err
	}
	grad := obj.Grad
	if grad == nil {
		settings := &fd.Settings{Formula: fd.Central, Step: b.GradStep}
		grad = func(dst, x []float64) {
			fd.Gradient(dst, obj.Func, x, settings)
		}
	}
	p := optimize.Problem{Func: obj.Func, Grad: grad}

	return run(tag, p, x0, newSettings(b.MaxIterations, b.MaxEvaluations, b.Tolerance), &optimize.BFGS{})
}
