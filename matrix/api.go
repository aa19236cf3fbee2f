// SPDX-License-Identifier: MIT
// Package matrix — public API facades.
//
// Purpose:
//   - Provide thin, well-documented entry points for common tasks across the package.
//   - Avoid any logic duplication — each facade delegates to the canonical implementation.
//
// AI-Hints:
//   - Prefer passing *Dense to unlock fast-paths in kernels (flat-slice loops).
//   - Use NewIdentity to build the exact full-rank correlation (I_n) in tests.

package matrix

// NewIdentity returns I_n (n×n identity).
// Complexity: O(n^2) zeroing + O(n) diagonal writes.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// AllClose reports whether |a-b| ≤ atol + rtol*|b| holds element-wise.
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf for bad tolerances.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	return ewAllClose(a, b, rtol, atol)
}

// CenterColumns subtracts per-column means and returns (Xc, means).
func CenterColumns(X Matrix) (Matrix, []float64, error) { return centerColumns(X) }

// NormalizeRowsL2 scales each row to unit Euclidean norm and returns (Y, norms).
// Zero rows are left unchanged.
func NormalizeRowsL2(X Matrix) (Matrix, []float64, error) { return normalizeRowsL2(X) }

// Covariance returns the sample covariance of columns and the column means.
func Covariance(X Matrix) (Matrix, []float64, error) { return covariance(X) }

// Correlation returns the Pearson correlation of columns, means and sample stds.
// Use it to build the raw input of a rank reducer from observation series.
func Correlation(X Matrix) (Matrix, []float64, []float64, error) { return correlation(X) }
