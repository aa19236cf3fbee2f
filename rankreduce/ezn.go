// SPDX-License-Identifier: MIT

package rankreduce

import (
	"fmt"

	"github.com/katalvlaran/rankreduce/matrix"
)

// EZN is the single-pass "eigenvalue zeroing, normalised" decomposer.
//
// Implementation:
//   - Stage 1: validate, symmetrise, clamp the rank to n.
//   - Stage 2: one eigen-decomposition; keep the k leading eigenpairs
//     (k = requested rank, clipped to the strictly positive spectrum).
//   - Stage 3: B[:,j] = v_j·√max(0,λ_j), then divide every row by its norm.
//
// Row normalisation makes diag(B·Bᵀ) exactly 1 at the price of no longer
// minimising the off-diagonal error; EZI and SAP improve on it.
//
// Complexity: one O(n³) decomposition plus O(n·k) post-processing.
type EZN struct {
	opts Options
}

var _ Decomposer = (*EZN)(nil)

// NewEZN returns an EZN decomposer. Relevant options: WithEigenSolver,
// WithEigenvalueFloor, WithLogger.
func NewEZN(opts ...Option) *EZN {
	return &EZN{opts: gatherOptions(opts...)}
}

// Kind reports KindEZN.
func (*EZN) Kind() Kind { return KindEZN }

// Create implements Decomposer.
func (e *EZN) Create(raw matrix.Matrix, maximalRank int) (*matrix.Dense, State, error) {
	const tag = "EZN.Create"
	w, rank, err := prepareInput(tag, raw, maximalRank)
	if err != nil {
		return nil, State{}, err
	}
	log := e.opts.logger.With().Str("algorithm", KindEZN.String()).Int("n", w.Rows()).Int("rank", rank).Logger()

	b, k, err := spectralFactor(e.opts.solver, w, rank, 0, e.opts.floor)
	if err != nil {
		return nil, State{}, decompErrorf(tag, fmt.Errorf("%w: %w", ErrNumericalFailure, err))
	}
	out, err := normalizeRows(b)
	if err != nil {
		return nil, State{}, decompErrorf(tag, fmt.Errorf("%w: %w", ErrNumericalFailure, err))
	}

	st := State{Rank: k, Iterations: 1, Evaluations: 1, Converged: true}
	if k < rank {
		st.Classification = RankClipped
		log.Warn().Int("achieved", k).Msg("rank clipped to positive spectrum")
	}
	if st.Residual, err = Residual(raw, out); err != nil {
		return nil, State{}, decompErrorf(tag, err)
	}
	log.Debug().Float64("residual", st.Residual).Msg("ezn done")

	return out, st, nil
}
