// SPDX-License-Identifier: MIT

package rankreduce

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/rankreduce/eigen"
	"github.com/katalvlaran/rankreduce/optimizer"
)

// Defaults. DefaultTolerance and DefaultMaxIterations reproduce the published
// EZI benchmark residuals.
const (
	// DefaultTolerance bounds max|diag(B·Bᵀ) − 1| at which EZI stops.
	DefaultTolerance = 1e-10

	// DefaultMaxIterations caps EZI refits.
	DefaultMaxIterations = 50

	// DefaultEigenvalueFloor: eigenvalues at or below floor·λmax count as zero
	// when deciding the achievable rank.
	DefaultEigenvalueFloor = 1e-12
)

const (
	panicToleranceInvalid = "rankreduce: WithTolerance: tol must be finite and > 0"
	panicMaxIterInvalid   = "rankreduce: WithMaxIterations: n must be >= 1"
	panicFloorInvalid     = "rankreduce: WithEigenvalueFloor: floor must be finite and in [0, 1)"
	panicNilSolver        = "rankreduce: WithEigenSolver: nil solver"
	panicNilMinimizer     = "rankreduce: WithMinimizer: nil minimizer"
)

// Option configures a decomposer at construction time.
type Option func(*Options)

// Options is the resolved configuration of a decomposer.
type Options struct {
	solver    eigen.Solver
	minimizer optimizer.Minimizer
	tol       float64
	maxIter   int
	floor     float64
	logger    zerolog.Logger
}

// WithEigenSolver injects the eigensolver. Default: eigen.Gonum{}.
func WithEigenSolver(s eigen.Solver) Option {
	if s == nil {
		panic(panicNilSolver)
	}

	return func(o *Options) { o.solver = s }
}

// WithMinimizer injects the optimizer used by SAP. Default: optimizer.NelderMead{}.
func WithMinimizer(m optimizer.Minimizer) Option {
	if m == nil {
		panic(panicNilMinimizer)
	}

	return func(o *Options) { o.minimizer = m }
}

// WithTolerance sets the EZI diagonal-change tolerance.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxIterations sets the EZI iteration cap.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(panicMaxIterInvalid)
	}

	return func(o *Options) { o.maxIter = n }
}

// WithEigenvalueFloor sets the relative threshold below which eigenvalues are
// treated as zero for rank clipping.
func WithEigenvalueFloor(floor float64) Option {
	if math.IsNaN(floor) || math.IsInf(floor, 0) || floor < 0 || floor >= 1 {
		panic(panicFloorInvalid)
	}

	return func(o *Options) { o.floor = floor }
}

// WithLogger sets the logger. Default: zerolog.Nop().
// Iterations log at Debug; clipping and non-convergence at Warn.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// gatherOptions applies setters over the documented defaults; last writer wins.
func gatherOptions(opts ...Option) Options {
	o := Options{
		solver:    eigen.Gonum{},
		minimizer: optimizer.NelderMead{},
		tol:       DefaultTolerance,
		maxIter:   DefaultMaxIterations,
		floor:     DefaultEigenvalueFloor,
		logger:    zerolog.Nop(),
	}
	for _, set := range opts {
		if set != nil {
			set(&o)
		}
	}

	return o
}
