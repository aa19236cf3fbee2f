// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise addition and subtraction, matrix multiplication, Gram products,
// transpose, scalar scaling, Frobenius norms and a Jacobi eigen-decomposition.
// All functions perform strict fail-fast validation and return clear errors on
// dimension mismatches.
//
// Notes:
//   - Every kernel has a *Dense fast-path over the flat buffer and an At/Set
//     fallback with the same loop order, so both paths agree bit for bit.
//   - Inputs are never mutated; results are freshly allocated *Dense values.

package matrix

import (
	"fmt"
	"math"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for dot products.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opSub        = "Sub"
	opMul        = "Mul"
	opGram       = "Gram"
	opTranspose  = "Transpose"
	opScale      = "Scale"
	opSymmetrize = "Symmetrize"
	opFrobenius  = "FrobeniusNorm"
	opDistance   = "SquaredFrobeniusDistance"
	opEigen      = "Eigen"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns m itself when it already is a *Dense, or a Dense copy read
// through At. Kernels that need random access use it to run a single loop body.
func toDense(m Matrix, tag string) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	r, c := m.Rows(), m.Cols()
	out, err := newDenseWithPolicy(r, c, false)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(tag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}

// Sub returns a − b element-wise.
//
// Implementation:
//   - Stage 1: ValidateBinarySameShape(a, b). Allocate result Dense(rows, cols).
//   - Stage 2: Fast-path if both are *Dense - single flat loop.
//     Otherwise, fallback At/Set with fixed i→j order.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the new result.
func Sub(a, b Matrix) (Matrix, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	rows, cols := a.Rows(), a.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}

	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for k := range res.data {
				res.data[k] = da.data[k] - db.data[k]
			}
			return res, nil
		}
	}

	var av, bv float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opSub, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opSub, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if err = res.Set(i, j, av-bv); err != nil {
				return nil, matrixErrorf(opSub, fmt.Errorf("Set(%d,%d): %w", i, j, err))
			}
		}
	}

	return res, nil
}

// Mul returns the matrix product a × b.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible; allocate Dense(a.Rows, b.Cols).
//   - Stage 2: Dense×Dense uses the cache-friendly i-k-j order over flat slices;
//     otherwise the generic i-j-k triple loop via At.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
//
// AI-Hints:
//   - For B·Bᵗ use Gram: it halves the work and guarantees exact symmetry.
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var rowA, rowB, rowR int
			for i = 0; i < aRows; i++ {
				rowA = i * aCols
				rowR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowA+k]
					if av == 0 {
						continue
					}
					rowB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowR+j] += av * db.data[rowB+j]
					}
				}
			}
			return res, nil
		}
	}

	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", i, k, err))
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", k, j, err))
				}
				current += av * bv
			}
			if err = res.Set(i, j, current); err != nil {
				return nil, matrixErrorf(opMul, fmt.Errorf("Set(%d,%d): %w", i, j, err))
			}
		}
	}

	return res, nil
}

// Gram returns B·Bᵗ (n×n for an n×r input): entry (i,j) is the dot product of
// rows i and j. Only the upper triangle is computed and then mirrored, so the
// result is exactly symmetric, which keeps downstream symmetry checks at
// tolerance zero honest.
//
// Errors: ErrNilMatrix.
// Complexity: Time O(n²·r/2), Space O(n²).
func Gram(b Matrix) (*Dense, error) {
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	db, err := toDense(b, opGram)
	if err != nil {
		return nil, err
	}
	n, r := db.r, db.c
	res, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	var (
		i, j, k    int
		rowI, rowJ int
		dot        float64
	)
	for i = 0; i < n; i++ {
		rowI = i * r
		for j = i; j < n; j++ {
			rowJ = j * r
			dot = ZeroSum
			for k = 0; k < r; k++ {
				dot += db.data[rowI+k] * db.data[rowJ+k]
			}
			res.data[i*n+j] = dot
			res.data[j*n+i] = dot
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
//
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		var baseSrc int
		for i = 0; i < rows; i++ {
			baseSrc = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[baseSrc+j]
			}
		}
		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if err = res.Set(j, i, v); err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("Set(%d,%d): %w", j, i, err))
			}
		}
	}

	return res, nil
}

// Scale returns a new matrix whose elements are alpha * m[i,j].
//
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c), Space O(r*c).
func Scale(m Matrix, alpha float64) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}

	if dm, ok := m.(*Dense); ok {
		for k, v := range dm.data {
			res.data[k] = alpha * v
		}
		return res, nil
	}

	var v float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opScale, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if err = res.Set(i, j, alpha*v); err != nil {
				return nil, matrixErrorf(opScale, fmt.Errorf("Set(%d,%d): %w", i, j, err))
			}
		}
	}

	return res, nil
}

// Symmetrize returns (m + mᵀ)/2 for a square m. The result is exactly symmetric.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch (non-square).
// Complexity: Time O(n²), Space O(n²).
func Symmetrize(m Matrix) (*Dense, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	dm, err := toDense(m, opSymmetrize)
	if err != nil {
		return nil, err
	}
	n := dm.r
	res, err := newDenseWithPolicy(n, n, false)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	var avg float64
	for i := 0; i < n; i++ {
		res.data[i*n+i] = dm.data[i*n+i]
		for j := i + 1; j < n; j++ {
			avg = 0.5 * (dm.data[i*n+j] + dm.data[j*n+i])
			res.data[i*n+j] = avg
			res.data[j*n+i] = avg
		}
	}
	res.validateNaNInf = DefaultValidateNaNInf

	return res, nil
}

// FrobeniusNorm returns sqrt(Σ m[i,j]²), accumulated with a running scale
// to avoid overflow for large entries (the LAPACK dnrm2 approach).
//
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func FrobeniusNorm(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}
	dm, err := toDense(m, opFrobenius)
	if err != nil {
		return 0, err
	}
	scale, ssq := NormZero, 1.0
	var absV, ratio float64
	for _, v := range dm.data {
		if v == 0 {
			continue
		}
		absV = math.Abs(v)
		if scale < absV {
			ratio = scale / absV
			ssq = 1 + ssq*ratio*ratio
			scale = absV
		} else {
			ratio = absV / scale
			ssq += ratio * ratio
		}
	}

	return scale * math.Sqrt(ssq), nil
}

// SquaredFrobeniusDistance returns ‖a − b‖²_F = Σ (a[i,j] − b[i,j])².
// This is the fitting metric reported by the rank reducers.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c), no allocation on the Dense fast-path.
func SquaredFrobeniusDistance(a, b Matrix) (float64, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return 0, matrixErrorf(opDistance, err)
	}
	var sum, d float64
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for k := range da.data {
				d = da.data[k] - db.data[k]
				sum += d * d
			}
			return sum, nil
		}
	}
	var av, bv float64
	var err error
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if av, err = a.At(i, j); err != nil {
				return 0, matrixErrorf(opDistance, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return 0, matrixErrorf(opDistance, err)
			}
			d = av - bv
			sum += d * d
		}
	}

	return sum, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via
// classical Jacobi rotations (largest off-diagonal pivot first).
//
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Copy into a working Dense A and initialise Q = I.
//   - Stage 3: Repeatedly pick (p,q) maximising |A[p,q]| in i→j order, rotate
//     A and accumulate the rotation into Q, until max|A[p,q]| < tol.
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix, unsorted).
//   - Matrix: Q whose columns are the corresponding unit eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (non-square), ErrAsymmetry (not symmetric within tol),
//     ErrNaNInf (non-finite tol or entries), ErrMatrixEigenFailed (max off-diagonal ≥ tol after maxIter).
//
// Determinism:
//   - Fixed i→j pivot search and fixed update order produce stable results.
//
// Complexity:
//   - Time O(maxIter * n^2) (each rotation is O(n), each pivot search O(n^2)), Space O(n^2).
//
// AI-Hints:
//   - Indefinite input is fine: Jacobi does not need positive definiteness,
//     which matters for market-adjusted correlation matrices.
//   - Good defaults: tol≈1e-12·‖A‖_F, maxIter≈50·n² rotations.
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, Matrix, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	if err := ValidateFinite(m); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	tol = math.Abs(tol)
	n := m.Rows()
	src, err := toDense(m, opEigen)
	if err != nil {
		return nil, nil, err
	}
	a := src.Clone().(*Dense) // working copy; the input is never touched
	q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for i := 0; i < n; i++ {
		q.data[i*n+i] = 1.0
	}

	var (
		iter, i, j, p, q0  int
		maxOff, off        float64
		app, aqq, apq      float64
		aip, aiq, qip, qiq float64
		theta, t, c, s     float64
	)
	for iter = 0; iter <= maxIter; iter++ {
		// J.1: pivot search
		maxOff = NormZero
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(a.data[i*n+j])
				if off > maxOff {
					maxOff, p, q0 = off, i, j
				}
			}
		}
		// J.2: convergence
		if maxOff < tol || maxOff == 0 {
			break
		}
		if iter == maxIter {
			return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
		}

		// J.3: rotation parameters
		app = a.data[p*n+p]
		aqq = a.data[q0*n+q0]
		apq = a.data[p*n+q0]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.4: rotate rows/columns p and q of A
		for i = 0; i < n; i++ {
			if i == p || i == q0 {
				continue
			}
			aip = a.data[i*n+p]
			aiq = a.data[i*n+q0]
			a.data[i*n+p] = c*aip - s*aiq
			a.data[p*n+i] = a.data[i*n+p]
			a.data[i*n+q0] = s*aip + c*aiq
			a.data[q0*n+i] = a.data[i*n+q0]
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		a.data[q0*n+q0] = s*s*app + 2*c*s*apq + c*c*aqq
		a.data[p*n+q0], a.data[q0*n+p] = 0, 0

		// J.5: accumulate into Q
		for i = 0; i < n; i++ {
			qip = q.data[i*n+p]
			qiq = q.data[i*n+q0]
			q.data[i*n+p] = c*qip - s*qiq
			q.data[i*n+q0] = s*qip + c*qiq
		}
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, q, nil
}
