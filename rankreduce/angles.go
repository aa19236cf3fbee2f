// SPDX-License-Identifier: MIT

package rankreduce

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/rankreduce/matrix"
)

// Hyperspherical coordinates of one row b ∈ ℝʳ with angles θ_1..θ_{r-1}:
//
//	b_k = cos θ_k · ∏_{j<k} sin θ_j   (k < r)
//	b_r =           ∏_{j<r} sin θ_j
//
// Every θ ∈ ℝ^{r-1} yields ‖b‖ = 1. Angles are stored row-major: row i owns
// θ[i·(r-1) : (i+1)·(r-1)].

// AngleCount returns the length of the angle vector for an n×r factor.
func AngleCount(n, r int) int { return n * (r - 1) }

// GetParametricMatrix overwrites every row of b with the unit vector encoded
// by its r−1 angles in theta. b's shape fixes n and r; theta must have
// length n·(r−1). With r = 1 every row becomes [1].
//
// Errors: ErrInvalidInput for a nil b or a length mismatch.
// Complexity: O(n·r).
func GetParametricMatrix(theta []float64, b *matrix.Dense) error {
	const tag = "GetParametricMatrix"
	if b == nil {
		return decompErrorf(tag, fmt.Errorf("%w: %w", ErrInvalidInput, matrix.ErrNilMatrix))
	}
	n, r := b.Shape()
	if len(theta) != AngleCount(n, r) {
		return decompErrorf(tag, fmt.Errorf("len(theta)=%d, want %d: %w", len(theta), AngleCount(n, r), ErrInvalidInput))
	}
	for i := 0; i < n; i++ {
		fillRow(b.RawRow(i), theta[i*(r-1):(i+1)*(r-1)])
	}

	return nil
}

// fillRow writes the hyperspherical image of angles into row (len(row) = len(angles)+1).
func fillRow(row, angles []float64) {
	prod := 1.0
	for k, a := range angles {
		row[k] = prod * math.Cos(a)
		prod *= math.Sin(a)
	}
	row[len(angles)] = prod
}

// GetAngleParameter writes into theta one angle vector that GetParametricMatrix
// maps back onto b. Rows are normalised first, so b need not have exact unit
// rows; a zero row encodes as all-zero angles, i.e. [1, 0, …, 0].
//
// For θ_k with k < r−1 the angle is atan2(‖b_{k+1..r}‖, b_k) ∈ [0, π]; the
// last one is atan2(b_r, b_{r−1}) ∈ (−π, π]. Angles in (0, π) therefore
// round-trip exactly; others come back as an equivalent representative.
//
// Errors: ErrInvalidInput for nil b, non-finite entries or a length mismatch.
// Complexity: O(n·r²).
func GetAngleParameter(b matrix.Matrix, theta []float64) error {
	const tag = "GetAngleParameter"
	if err := matrix.ValidateNotNil(b); err != nil {
		return decompErrorf(tag, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	if err := matrix.ValidateFinite(b); err != nil {
		return decompErrorf(tag, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	n, r := b.Rows(), b.Cols()
	if len(theta) != AngleCount(n, r) {
		return decompErrorf(tag, fmt.Errorf("len(theta)=%d, want %d: %w", len(theta), AngleCount(n, r), ErrInvalidInput))
	}
	if r == 1 {
		return nil
	}

	row := make([]float64, r)
	var err error
	for i := 0; i < n; i++ {
		for j := 0; j < r; j++ {
			if row[j], err = b.At(i, j); err != nil {
				return decompErrorf(tag, err)
			}
		}
		out := theta[i*(r-1) : (i+1)*(r-1)]
		norm := floats.Norm(row, 2)
		if norm == 0 {
			for k := range out {
				out[k] = 0
			}
			continue
		}
		floats.Scale(1/norm, row)
		for k := 0; k < r-2; k++ {
			out[k] = math.Atan2(floats.Norm(row[k+1:], 2), row[k])
		}
		out[r-2] = math.Atan2(row[r-1], row[r-2])
	}

	return nil
}
