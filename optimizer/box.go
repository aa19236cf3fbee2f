// SPDX-License-Identifier: MIT

package optimizer

import (
	"fmt"
	"math"
)

// Box restricts Inner to the hyper-rectangle [Lower, Upper].
//
// The search runs over an unconstrained z with
//
//	x_i = lo_i + (hi_i - lo_i)·(1 + sin z_i)/2
//
// so the objective is only ever evaluated at feasible points. Gradients, when
// present, are chained through dx/dz = (hi-lo)·cos(z)/2.
type Box struct {
	Inner Minimizer
	Lower []float64
	Upper []float64
}

var _ Minimizer = Box{}

// Minimize implements Minimizer. x0 must lie inside the box (bounds included).
func (b Box) Minimize(obj Objective, x0 []float64) (Result, error) {
	const tag = "Box.Minimize"
	if b.Inner == nil {
		return Result{}, optimizerErrorf(tag, fmt.Errorf("nil inner minimizer: %w", ErrMinimizationFailed))
	}
	n := len(x0)
	if len(b.Lower) != n || len(b.Upper) != n {
		return Result{}, optimizerErrorf(tag, ErrBounds)
	}
	if !allFinite(b.Lower) || !allFinite(b.Upper) {
		return Result{}, optimizerErrorf(tag, ErrBounds)
	}
	for i := 0; i < n; i++ {
		if !(b.Lower[i] < b.Upper[i]) {
			return Result{}, optimizerErrorf(tag, fmt.Errorf("dimension %d: lower %v >= upper %v: %w", i, b.Lower[i], b.Upper[i], ErrBounds))
		}
		if x0[i] < b.Lower[i] || x0[i] > b.Upper[i] {
			return Result{}, optimizerErrorf(tag, fmt.Errorf("x0[%d]=%v outside [%v, %v]: %w", i, x0[i], b.Lower[i], b.Upper[i], ErrBounds))
		}
	}
	if obj.Func == nil {
		return Result{}, optimizerErrorf(tag, ErrNilObjective)
	}

	z0 := make([]float64, n)
	for i := 0; i < n; i++ {
		s := 2*(x0[i]-b.Lower[i])/(b.Upper[i]-b.Lower[i]) - 1
		z0[i] = math.Asin(math.Max(-1, math.Min(1, s)))
	}

	inner := Objective{
		Func: func(z []float64) float64 {
			return obj.Func(b.toBox(nil, z))
		},
	}
	if obj.Grad != nil {
		inner.Grad = func(grad, z []float64) {
			obj.Grad(grad, b.toBox(nil, z))
			for i := range grad {
				grad[i] *= 0.5 * (b.Upper[i] - b.Lower[i]) * math.Cos(z[i])
			}
		}
	}

	res, err := b.Inner.Minimize(inner, z0)
	if res.X != nil {
		res.X = b.toBox(nil, res.X)
	}
	if err != nil {
		return res, optimizerErrorf(tag, err)
	}

	return res, nil
}

// toBox maps z into the box, writing into dst when it has the right length.
// The result is clamped so rounding never leaves the box.
func (b Box) toBox(dst, z []float64) []float64 {
	if len(dst) != len(z) {
		dst = make([]float64, len(z))
	}
	for i, zi := range z {
		x := b.Lower[i] + (b.Upper[i]-b.Lower[i])*(1+math.Sin(zi))/2
		dst[i] = math.Max(b.Lower[i], math.Min(b.Upper[i], x))
	}

	return dst
}
