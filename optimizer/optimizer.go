// SPDX-License-Identifier: MIT

package optimizer

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Sentinel errors. Call sites wrap them with an operation tag; match with errors.Is.
var (
	// ErrNilObjective indicates an Objective without Func.
	ErrNilObjective = errors.New("optimizer: objective function is nil")

	// ErrBadInitialGuess indicates an empty or non-finite x0, or f(x0) not finite.
	ErrBadInitialGuess = errors.New("optimizer: bad initial guess")

	// ErrBounds indicates inconsistent box bounds or an x0 outside them.
	ErrBounds = errors.New("optimizer: invalid bounds")

	// ErrMinimizationFailed indicates the underlying method failed without a usable optimum.
	ErrMinimizationFailed = errors.New("optimizer: minimization failed")
)

// Defaults shared by the gonum-backed minimizers.
const (
	// DefaultTolerance is the absolute and relative function-decrease threshold.
	DefaultTolerance = 1e-12
	// DefaultStallIterations is how many major iterations without a
	// significant decrease end the run as converged.
	DefaultStallIterations = 100
	// DefaultMaxEvaluations caps objective evaluations.
	DefaultMaxEvaluations = 200000
)

// Objective is a scalar function of a vector. Grad is optional; when set it
// must write ∇f(x) into grad without modifying x.
type Objective struct {
	Func func(x []float64) float64
	Grad func(grad, x []float64)
}

// Result is the outcome of a minimisation.
type Result struct {
	X           []float64 // best point found
	F           float64   // Func(X)
	Iterations  int       // major iterations
	Evaluations int       // Func evaluations
	Converged   bool      // false when a budget ran out first
	Status      string    // method termination status, for logs
}

// Minimizer minimises an Objective from x0. Implementations must not mutate
// x0 and must be safe for concurrent use.
type Minimizer interface {
	Minimize(obj Objective, x0 []float64) (Result, error)
}

// optimizerErrorf wraps err with an operation tag, preserving it for errors.Is.
func optimizerErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// validateStart checks the objective and x0, returning f(x0).
func validateStart(tag string, obj Objective, x0 []float64) (float64, error) {
	if obj.Func == nil {
		return 0, optimizerErrorf(tag, ErrNilObjective)
	}
	if len(x0) == 0 || !allFinite(x0) {
		return 0, optimizerErrorf(tag, ErrBadInitialGuess)
	}
	f0 := obj.Func(x0)
	if math.IsNaN(f0) || math.IsInf(f0, 0) {
		return 0, optimizerErrorf(tag, fmt.Errorf("f(x0)=%v: %w", f0, ErrBadInitialGuess))
	}

	return f0, nil
}

// allFinite reports whether x holds no NaN and no ±Inf.
func allFinite(x []float64) bool {
	if floats.HasNaN(x) {
		return false
	}
	for _, v := range x {
		if math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// newSettings translates budgets into gonum settings.
func newSettings(maxIter, maxEval int, tol float64) *optimize.Settings {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if maxEval <= 0 {
		maxEval = DefaultMaxEvaluations
	}

	return &optimize.Settings{
		MajorIterations: maxIter,
		FuncEvaluations: maxEval,
		Converger: &optimize.FunctionConverge{
			Absolute:   tol,
			Relative:   tol,
			Iterations: DefaultStallIterations,
		},
	}
}

// run executes a gonum method and converts its result.
//
// A budget exhaustion (IterationLimit, FunctionEvaluationLimit) yields the
// best point with Converged=false and a nil error. A Failure status, an error
// from gonum or a non-finite optimum yields ErrMinimizationFailed together
// with whatever point gonum reported.
func run(tag string, p optimize.Problem, x0 []float64, s *optimize.Settings, m optimize.Method) (Result, error) {
	start := make([]float64, len(x0))
	copy(start, x0)

	res, err := optimize.Minimize(p, start, s, m)
	if res == nil {
		return Result{}, optimizerErrorf(tag, fmt.Errorf("%w: %w", ErrMinimizationFailed, err))
	}
	out := Result{
		X:           res.X,
		F:           res.F,
		Iterations:  res.MajorIterations,
		Evaluations: res.FuncEvaluations,
		Converged:   !res.Status.Early(),
		Status:      res.Status.String(),
	}
	if err != nil {
		return out, optimizerErrorf(tag, fmt.Errorf("%w: %w", ErrMinimizationFailed, err))
	}
	if res.Status == optimize.Failure || math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		return out, optimizerErrorf(tag, fmt.Errorf("status %s: %w", res.Status, ErrMinimizationFailed))
	}

	return out, nil
}
