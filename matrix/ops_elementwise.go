// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Element-wise micro-kernels shared by the statistics layer: broadcast
//     subtraction, per-column and per-row scaling, tolerance comparison.
//   - Dense fast-paths over flat buffers; generic fallback via At/Set.
//
// AI-Hints:
//   - Keep broadcast arrays (colMeans/scale) precomputed and reused across calls.

package matrix

import "math"

// ewBroadcastSubCols computes out[i,j] = X[i,j] - colMeans[j].
// Time: O(r*c). Space: O(r*c). Deterministic i→j loops.
func ewBroadcastSubCols(X Matrix, colMeans []float64) (Matrix, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf("broadcastSubCols", err)
	}
	r, c := X.Rows(), X.Cols()
	if len(colMeans) != c {
		return nil, matrixErrorf("broadcastSubCols", ErrDimensionMismatch)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf("broadcastSubCols", err)
	}

	if d, ok := X.(*Dense); ok {
		for i := 0; i < r; i++ {
			base := i * c
			for j := 0; j < c; j++ {
				out.data[base+j] = d.data[base+j] - colMeans[j]
			}
		}
		return out, nil
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, e := X.At(i, j)
			if e != nil {
				return nil, matrixErrorf("broadcastSubCols", e)
			}
			_ = out.Set(i, j, v-colMeans[j])
		}
	}
	return out, nil
}

// ewScaleCols computes out[i,j] = X[i,j] * scale[j].
// Time: O(r*c). Space: O(r*c).
//
// AI-Hint: use factors as 1/std for z-scoring, or 0 for degenerate columns.
func ewScaleCols(X Matrix, scale []float64) (Matrix, error) {
	return ewScale(X, scale, false, "scaleCols")
}

// ewScaleRows computes out[i,j] = X[i,j] * scale[i].
// Time: O(r*c). Space: O(r*c).
//
// AI-Hint: use for L2 row-normalisation of loading matrices.
func ewScaleRows(X Matrix, scale []float64) (Matrix, error) {
	return ewScale(X, scale, true, "scaleRows")
}

// ewScale is the shared body of ewScaleCols/ewScaleRows.
func ewScale(X Matrix, scale []float64, byRow bool, tag string) (Matrix, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	r, c := X.Rows(), X.Cols()
	want := c
	if byRow {
		want = r
	}
	if len(scale) != want {
		return nil, matrixErrorf(tag, ErrDimensionMismatch)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	factor := func(i, j int) float64 {
		if byRow {
			return scale[i]
		}
		return scale[j]
	}

	if d, ok := X.(*Dense); ok {
		for i := 0; i < r; i++ {
			base := i * c
			for j := 0; j < c; j++ {
				out.data[base+j] = d.data[base+j] * factor(i, j)
			}
		}
		return out, nil
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, e := X.At(i, j)
			if e != nil {
				return nil, matrixErrorf(tag, e)
			}
			_ = out.Set(i, j, v*factor(i, j))
		}
	}
	return out, nil
}

// ewAllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// Negative tolerances are normalised to their absolute value.
// Time: O(r*c). Space: O(1).
func ewAllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf("AllClose", ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf("AllClose", err)
	}

	r, c := a.Rows(), a.Cols()
	var av, bv float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			av, _ = a.At(i, j)
			bv, _ = b.At(i, j)
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				return false, nil // early-exit on first violation
			}
		}
	}

	return true, nil
}
