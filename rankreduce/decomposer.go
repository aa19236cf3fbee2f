// SPDX-License-Identifier: MIT

package rankreduce

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/rankreduce/eigen"
	"github.com/katalvlaran/rankreduce/matrix"
)

// Decomposer computes a rank-reduced pseudo-square-root of a correlation matrix.
//
// Create returns B (n×State.Rank, State.Rank ≤ maximalRank) and a State.
// A maximalRank above n is clamped to n. raw is never mutated. Implementations
// keep no per-call state, so one Decomposer may serve concurrent calls.
type Decomposer interface {
	Create(raw matrix.Matrix, maximalRank int) (*matrix.Dense, State, error)
}

// Kind names a rank-reduction algorithm.
type Kind int

const (
	KindEZI Kind = iota // iterative eigenvalue zeroing
	KindEZN             // normalised eigenvalue zeroing
	KindSAP             // spectral angle parametrisation
)

var kindNames = [...]string{KindEZI: "ezi", KindEZN: "ezn", KindSAP: "sap"}

// String returns the lower-case algorithm name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind maps "ezi", "ezn" or "sap" (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == want {
			return Kind(i), nil
		}
	}

	return 0, decompErrorf("ParseKind", fmt.Errorf("unknown algorithm %q: %w", s, ErrInvalidInput))
}

// New builds the decomposer for kind with the given options.
func New(kind Kind, opts ...Option) (Decomposer, error) {
	switch kind {
	case KindEZI:
		return NewEZI(opts...), nil
	case KindEZN:
		return NewEZN(opts...), nil
	case KindSAP:
		return NewSAP(opts...), nil
	default:
		return nil, decompErrorf("New", fmt.Errorf("unknown kind %v: %w", kind, ErrInvalidInput))
	}
}

// Residual returns ‖B·Bᵀ − raw‖²_F over all entries.
func Residual(raw, b matrix.Matrix) (float64, error) {
	const tag = "Residual"
	if raw == nil || b == nil {
		return 0, decompErrorf(tag, fmt.Errorf("%w: %w", ErrInvalidInput, matrix.ErrNilMatrix))
	}
	g, err := matrix.Gram(b)
	if err != nil {
		return 0, decompErrorf(tag, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	d, err := matrix.SquaredFrobeniusDistance(g, raw)
	if err != nil {
		return 0, decompErrorf(tag, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}

	return d, nil
}

// prepareInput validates raw and the requested rank. It returns the symmetric
// part of raw as a fresh working copy and the rank clamped to n.
func prepareInput(tag string, raw matrix.Matrix, maximalRank int) (*matrix.Dense, int, error) {
	if err := matrix.ValidateSquareNonNil(raw); err != nil {
		return nil, 0, decompErrorf(tag, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	if err := matrix.ValidateFinite(raw); err != nil {
		return nil, 0, decompErrorf(tag, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	if maximalRank < 1 {
		return nil, 0, decompErrorf(tag, fmt.Errorf("rank %d < 1: %w", maximalRank, ErrInvalidInput))
	}
	w, err := matrix.Symmetrize(raw)
	if err != nil {
		return nil, 0, decompErrorf(tag, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	if n := w.Rows(); maximalRank > n {
		maximalRank = n
	}

	return w, maximalRank, nil
}

// achievableRank returns how many of the leading (descending) eigenvalues,
// at most rank, lie strictly above floor·λmax.
func achievableRank(desc []float64, rank int, floor float64) int {
	if len(desc) == 0 || desc[0] <= 0 {
		return 0
	}
	cut := floor * desc[0]
	k := 0
	for k < rank && k < len(desc) && desc[k] > cut {
		k++
	}

	return k
}

// spectralFactor decomposes w and returns the n×k factor whose column j is
// v_j·√max(0,λ_j) for the k leading eigenpairs. k is fixed by the caller when
// positive, otherwise derived from achievableRank.
func spectralFactor(solver eigen.Solver, w matrix.Matrix, rank, k int, floor float64) (*matrix.Dense, int, error) {
	dec, err := solver.Decompose(w)
	if err != nil {
		return nil, 0, err
	}
	if err = dec.Validate(); err != nil {
		return nil, 0, err
	}
	if dec.Vectors.Rows() != w.Rows() {
		return nil, 0, fmt.Errorf("solver returned %d-row vectors for a %d×%d matrix: %w",
			dec.Vectors.Rows(), w.Rows(), w.Rows(), eigen.ErrDecompositionFailed)
	}
	desc, err := dec.Descending()
	if err != nil {
		return nil, 0, err
	}
	if k <= 0 {
		k = achievableRank(desc.Values, rank, floor)
		if k == 0 {
			return nil, 0, fmt.Errorf("no positive eigenvalue (λmax=%v)", desc.Values[0])
		}
	} else if k > len(desc.Values) {
		return nil, 0, fmt.Errorf("solver returned %d eigenpairs, need %d: %w",
			len(desc.Values), k, eigen.ErrDecompositionFailed)
	}
	b, err := desc.Vectors.LeadingColumns(k)
	if err != nil {
		return nil, 0, err
	}
	scale := make([]float64, k)
	for j := 0; j < k; j++ {
		scale[j] = math.Sqrt(math.Max(0, desc.Values[j]))
	}
	if err = b.Apply(func(_, j int, v float64) float64 { return v * scale[j] }); err != nil {
		return nil, 0, err
	}

	return b, k, nil
}

// normalizeRows returns B with unit rows; zero rows are kept as they are.
func normalizeRows(b *matrix.Dense) (*matrix.Dense, error) {
	y, _, err := matrix.NormalizeRowsL2(b)
	if err != nil {
		return nil, err
	}

	return y.(*matrix.Dense), nil
}
