// SPDX-License-Identifier: MIT

package rankreduce

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/rankreduce/matrix"
	"github.com/katalvlaran/rankreduce/optimizer"
)

// SAP is the "spectral angle parametrisation" decomposer.
//
// Implementation:
//   - Stage 1: run EZN with the same solver to get a seed B₀ and the
//     achievable rank k (rank clipping is inherited from the seed).
//   - Stage 2: θ₀ = GetAngleParameter(B₀).
//   - Stage 3: minimise f(θ) = Σ_{i≠j} ((B(θ)·B(θ)ᵀ)_ij − C_ij)² with the
//     injected Minimizer. Diagonal entries are structurally 1 and excluded.
//   - Stage 4: B = B(θ*).
//
// A budget-exhausted optimizer yields Converged == false. An optimizer error
// yields the best point it reported (or the seed) with NumericalFailure and
// a nil error. For k = 1 there is nothing to optimise and every row is [1].
//
// Complexity: one O(n³) decomposition plus O(n²·k) per objective evaluation.
type SAP struct {
	opts Options
	seed *EZN
}

var _ Decomposer = (*SAP)(nil)

// NewSAP returns a SAP decomposer. Relevant options: WithEigenSolver,
// WithMinimizer, WithEigenvalueFloor, WithLogger.
func NewSAP(opts ...Option) *SAP {
	o := gatherOptions(opts...)

	return &SAP{opts: o, seed: &EZN{opts: o}}
}

// Kind reports KindSAP.
func (*SAP) Kind() Kind { return KindSAP }

// Create implements Decomposer.
func (s *SAP) Create(raw matrix.Matrix, maximalRank int) (*matrix.Dense, State, error) {
	const tag = "SAP.Create"
	b0, seedState, err := s.seed.Create(raw, maximalRank)
	if err != nil {
		return nil, State{}, decompErrorf(tag, err)
	}
	n, k := b0.Shape()
	log := s.opts.logger.With().Str("algorithm", KindSAP.String()).Int("n", n).Int("rank", k).Logger()

	theta := make([]float64, AngleCount(n, k))
	if err = GetAngleParameter(b0, theta); err != nil {
		return nil, State{}, decompErrorf(tag, err)
	}
	b, err := matrix.NewDense(n, k)
	if err != nil {
		return nil, State{}, decompErrorf(tag, fmt.Errorf("%w: %w", ErrNumericalFailure, err))
	}
	obj := s.objective(raw, n, k)

	st := State{
		Rank:           k,
		Evaluations:    seedState.Evaluations,
		Classification: seedState.Classification,
		Converged:      true,
	}
	if len(theta) > 0 {
		res, mErr := s.opts.minimizer.Minimize(obj, theta)
		st.Iterations = res.Iterations
		st.Evaluations += res.Evaluations
		st.Converged = res.Converged
		if mErr != nil {
			log.Warn().Err(mErr).Msg("optimizer failed, keeping best point")
			st.Classification = NumericalFailure
			st.Converged = false
		}
		if len(res.X) == len(theta) {
			theta = res.X
		}
		if !st.Converged && mErr == nil {
			log.Warn().Str("status", res.Status).Int("evaluations", res.Evaluations).Msg("optimizer budget exhausted")
		}
	}

	if err = GetParametricMatrix(theta, b); err != nil {
		return nil, State{}, decompErrorf(tag, err)
	}
	st.Objective = obj.Func(theta)
	if st.Residual, err = Residual(raw, b); err != nil {
		return nil, State{}, decompErrorf(tag, err)
	}
	log.Debug().Float64("objective", st.Objective).Float64("seed_residual", seedState.Residual).
		Float64("residual", st.Residual).Int("iterations", st.Iterations).Msg("sap done")

	return b, st, nil
}

// objective builds f(θ) for raw. Every call allocates its own factor, so the
// closure is safe for concurrent evaluation.
func (s *SAP) objective(raw matrix.Matrix, n, k int) optimizer.Objective {
	c := make([][]float64, n)
	for i := 0; i < n; i++ {
		c[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			c[i][j], _ = raw.At(i, j) // shape validated by the seed run
		}
	}

	return optimizer.Objective{
		Func: func(theta []float64) float64 {
			rows := make([][]float64, n)
			for i := 0; i < n; i++ {
				rows[i] = make([]float64, k)
				fillRow(rows[i], theta[i*(k-1):(i+1)*(k-1)])
			}
			var sum, dot, d1, d2 float64
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					dot = floats.Dot(rows[i], rows[j])
					d1 = dot - c[i][j]
					d2 = dot - c[j][i]
					sum += d1*d1 + d2*d2
				}
			}

			return sum
		},
	}
}
