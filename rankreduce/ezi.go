// SPDX-License-Identifier: MIT

package rankreduce

import (
	"fmt"
	"math"

	"github.com/katalvlaran/rankreduce/matrix"
)

// EZI is the iterative "eigenvalue zeroing" decomposer.
//
// Implementation:
//   - Stage 1: validate, symmetrise, clamp the rank to n; W ← C.
//   - Stage 2: repeat up to the iteration cap:
//     truncate W to its k leading eigenpairs (B = V_k·√Λ_k), form M = B·Bᵀ,
//     measure d = max_i |M_ii − 1|, then set W ← M with its diagonal reset
//     to 1. Stop once d < tolerance.
//   - Stage 3: normalise the rows of the last B.
//
// The achievable rank k is fixed by the first decomposition. If a later
// decomposition fails, the previous B is returned with NumericalFailure and a
// nil error; a failure on the very first one is an ErrNumericalFailure error.
// Hitting the cap is reported with State.Converged == false.
//
// Complexity: O(iterations·n³).
type EZI struct {
	opts Options
}

var _ Decomposer = (*EZI)(nil)

// NewEZI returns an EZI decomposer. Relevant options: WithEigenSolver,
// WithTolerance, WithMaxIterations, WithEigenvalueFloor, WithLogger.
func NewEZI(opts ...Option) *EZI {
	return &EZI{opts: gatherOptions(opts...)}
}

// Kind reports KindEZI.
func (*EZI) Kind() Kind { return KindEZI }

// Create implements Decomposer.
func (e *EZI) Create(raw matrix.Matrix, maximalRank int) (*matrix.Dense, State, error) {
	const tag = "EZI.Create"
	w, rank, err := prepareInput(tag, raw, maximalRank)
	if err != nil {
		return nil, State{}, err
	}
	n := w.Rows()
	log := e.opts.logger.With().Str("algorithm", KindEZI.String()).Int("n", n).Int("rank", rank).Logger()

	var (
		st   State
		b    *matrix.Dense
		k    int
		diag float64
	)
	for it := 1; it <= e.opts.maxIter; it++ {
		cand, kk, fErr := spectralFactor(e.opts.solver, w, rank, k, e.opts.floor)
		st.Evaluations++
		if fErr != nil {
			if b == nil {
				return nil, State{}, decompErrorf(tag, fmt.Errorf("%w: %w", ErrNumericalFailure, fErr))
			}
			log.Warn().Err(fErr).Int("iteration", it).Msg("refit failed, keeping previous factor")
			st.Classification = NumericalFailure
			break
		}
		b, k = cand, kk
		st.Iterations = it

		m, gErr := matrix.Gram(b)
		if gErr != nil {
			return nil, State{}, decompErrorf(tag, fmt.Errorf("%w: %w", ErrNumericalFailure, gErr))
		}
		diag = 0
		for i := 0; i < n; i++ {
			row := m.RawRow(i)
			diag = math.Max(diag, math.Abs(row[i]-1))
			row[i] = 1
		}
		w = m
		log.Debug().Int("iteration", it).Float64("diag_change", diag).Msg("ezi refit")
		if diag < e.opts.tol {
			st.Converged = true
			break
		}
	}

	out, err := normalizeRows(b)
	if err != nil {
		return nil, State{}, decompErrorf(tag, fmt.Errorf("%w: %w", ErrNumericalFailure, err))
	}
	st.Rank = k
	if k < rank && st.Classification == ProperResult {
		st.Classification = RankClipped
		log.Warn().Int("achieved", k).Msg("rank clipped to positive spectrum")
	}
	if !st.Converged && st.Classification != NumericalFailure {
		log.Warn().Int("iterations", st.Iterations).Float64("diag_change", diag).Msg("iteration cap reached")
	}
	if st.Residual, err = Residual(raw, out); err != nil {
		return nil, State{}, decompErrorf(tag, err)
	}

	return out, st, nil
}
