// SPDX-License-Identifier: MIT

package optimizer

import "gonum.org/v1/gonum/optimize"

// NelderMead is the derivative-free downhill simplex method.
// The zero value uses gonum defaults with DefaultTolerance and
// DefaultMaxEvaluations.
type NelderMead struct {
	MaxIterations  int     // 0 = unlimited
	MaxEvaluations int     // 0 = DefaultMaxEvaluations
	Tolerance      float64 // 0 = DefaultTolerance
	SimplexSize    float64 // 0 = gonum default (0.05)
}

var _ Minimizer = NelderMead{}

// Minimize implements Minimizer. Objective.Grad is ignored.
func (nm NelderMead) Minimize(obj Objective, x0 []float64) (Result, error) {
	const tag = "NelderMead.Minimize"
	if _, err := validateStart(tag, obj, x0); err != nil {
		return Result{}, err
	}
	p := optimize.Problem{Func: obj.Func}
	method := &optimize.NelderMead{SimplexSize: nm.SimplexSize}

	return run(tag, p, x0, newSettings(nm.MaxIterations, nm.MaxEvaluations, nm.Tolerance), method)
}
