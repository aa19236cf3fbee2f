// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Statistical transforms that feed and finish the rank reducers:
//     CenterColumns, Covariance and Correlation turn observation series into a
//     raw correlation input; NormalizeRowsL2 rescales loading rows to unit norm
//     so that diag(B·Bᵗ) = 1.
//   - Compositions over canonical kernels (Mul/Transpose/Scale) and ew* micro-kernels.
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths avoid At/Set and operate on row-major flat buffers.

package matrix

import "math"

// Operation name constants for unified error wrapping.
const (
	opCenterColumns   = "CenterColumns"
	opNormalizeRowsL2 = "NormalizeRowsL2"
	opCovariance      = "Covariance"
	opCorrelation     = "Correlation"
)

// centerColumns subtracts the per-column mean from every element.
//
// Returns:
//   - Matrix: centered copy (r×c).
//   - []float64: column means (len=c).
//
// Errors:
//   - ErrNilMatrix; wrapped At errors from the fallback path.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func centerColumns(X Matrix) (Matrix, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	r, c := X.Rows(), X.Cols()
	means := make([]float64, c)

	var i, j int
	if d, ok := X.(*Dense); ok {
		for i = 0; i < r; i++ {
			base := i * c
			for j = 0; j < c; j++ {
				means[j] += d.data[base+j]
			}
		}
	} else {
		var v float64
		var err error
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				if v, err = X.At(i, j); err != nil {
					return nil, nil, matrixErrorf(opCenterColumns, err)
				}
				means[j] += v
			}
		}
	}

	invR := 1.0 / float64(r)
	for j = 0; j < c; j++ {
		means[j] *= invR
	}

	Xc, err := ewBroadcastSubCols(X, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return Xc, means, nil
}

// normalizeRowsL2 divides every row by its Euclidean norm.
// Degenerate rows (norm 0) are left unchanged; the caller decides how to treat them.
//
// Returns:
//   - Matrix: normalised copy.
//   - []float64: original row norms.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func normalizeRowsL2(X Matrix) (Matrix, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL2, err)
	}
	r, c := X.Rows(), X.Cols()
	norms := make([]float64, r)

	var i, j int
	var sq, v float64
	if d, ok := X.(*Dense); ok {
		for i = 0; i < r; i++ {
			sq = 0.0
			base := i * c
			for j = 0; j < c; j++ {
				v = d.data[base+j]
				sq += v * v
			}
			norms[i] = math.Sqrt(sq)
		}
	} else {
		var err error
		for i = 0; i < r; i++ {
			sq = 0.0
			for j = 0; j < c; j++ {
				if v, err = X.At(i, j); err != nil {
					return nil, nil, matrixErrorf(opNormalizeRowsL2, err)
				}
				sq += v * v
			}
			norms[i] = math.Sqrt(sq)
		}
	}

	scale := make([]float64, r)
	for i = 0; i < r; i++ {
		if norms[i] > 0 {
			scale[i] = 1.0 / norms[i]
		} else {
			scale[i] = 1.0
		}
	}

	Y, err := ewScaleRows(X, scale)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL2, err)
	}

	return Y, norms, nil
}

// covariance computes the sample covariance of columns: (Xcᵀ Xc)/(r-1).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (r<2).
//
// Complexity:
//   - Time O(r*c^2), Space O(c^2).
func covariance(X Matrix) (Matrix, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	r := X.Rows()
	if r < 2 {
		return nil, nil, matrixErrorf(opCovariance, ErrDimensionMismatch)
	}

	Xc, means, err := centerColumns(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	Xct, err := Transpose(Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	G, err := Mul(Xct, Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	Cov, err := Scale(G, 1.0/float64(r-1))
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}

	return Cov, means, nil
}

// correlation computes the Pearson correlation of columns via z-scoring:
// Corr = (Zᵀ Z)/(r-1), Z = (X − mean) * diag(1/std).
//
// Behavior highlights:
//   - Symmetric; diagonal is 1 for non-degenerate columns, 0 for degenerate (std==0).
//   - The diagonal of non-degenerate columns is pinned to exactly 1, removing
//     the last-bit drift of the z-score round trip.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (r<2), wrapped alloc/At errors.
//
// Complexity:
//   - Time O(r*c + r*c^2), Space O(c^2).
func correlation(X Matrix) (Matrix, []float64, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}
	r, c := X.Rows(), X.Cols()
	if r < 2 {
		return nil, nil, nil, matrixErrorf(opCorrelation, ErrDimensionMismatch)
	}

	Xc, means, err := centerColumns(X)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}

	// std[j] = sqrt( Σ_i Xc[i,j]^2 / (r-1) ); Xc is always *Dense here.
	xc := Xc.(*Dense)
	stds := make([]float64, c)
	var i, j int
	for i = 0; i < r; i++ {
		base := i * c
		for j = 0; j < c; j++ {
			stds[j] += xc.data[base+j] * xc.data[base+j]
		}
	}
	inv := 1.0 / float64(r-1)
	invStd := make([]float64, c)
	for j = 0; j < c; j++ {
		stds[j] = math.Sqrt(stds[j] * inv)
		if stds[j] > 0 {
			invStd[j] = 1.0 / stds[j]
		}
	}

	Z, err := ewScaleCols(Xc, invStd)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}
	Zt, err := Transpose(Z)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}
	G, err := Mul(Zt, Z)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}
	Corr, err := Scale(G, inv)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}
	cd := Corr.(*Dense)
	for j = 0; j < c; j++ {
		if stds[j] > 0 {
			cd.data[j*c+j] = 1.0
		}
	}

	return Corr, means, stds, nil
}
