// SPDX-License-Identifier: MIT

package eigen

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/rankreduce/matrix"
)

// Jacobi defaults, applied when the corresponding field is zero.
const (
	// DefaultJacobiTol is relative to max(1, ‖A‖_F).
	DefaultJacobiTol = 1e-13
	// DefaultJacobiSweeps bounds rotations at sweeps·n².
	DefaultJacobiSweeps = 50
)

// Jacobi decomposes with matrix.Eigen (classical Jacobi rotations).
//
// Tol is the absolute off-diagonal threshold; zero selects
// DefaultJacobiTol·max(1, ‖A‖_F). MaxIter caps the number of rotations; zero
// selects DefaultJacobiSweeps·n².
type Jacobi struct {
	Tol     float64
	MaxIter int
}

var _ Solver = Jacobi{}

// Decompose implements Solver. Eigenpairs are sorted ascending with
// floats.Argsort; ties keep a deterministic order.
func (j Jacobi) Decompose(a matrix.Matrix) (Decomposition, error) {
	const tag = "Jacobi.Decompose"
	sym, err := prepare(tag, a)
	if err != nil {
		return Decomposition{}, err
	}
	n := sym.Rows()

	tol := j.Tol
	if tol == 0 {
		norm, nErr := matrix.FrobeniusNorm(sym)
		if nErr != nil {
			return Decomposition{}, fmt.Errorf("%s: %w", tag, nErr)
		}
		if norm < 1 {
			norm = 1
		}
		tol = DefaultJacobiTol * norm
	}
	maxIter := j.MaxIter
	if maxIter == 0 {
		maxIter = DefaultJacobiSweeps * n * n
	}

	vals, q, err := matrix.Eigen(sym, tol, maxIter)
	if err != nil {
		return Decomposition{}, fmt.Errorf("%s: %w: %w", tag, ErrDecompositionFailed, err)
	}

	idx := make([]int, n)
	floats.Argsort(vals, idx) // sorts vals in place, idx maps new → old column
	vecs, err := q.(*matrix.Dense).Induced(identityIndex(n), idx)
	if err != nil {
		return Decomposition{}, fmt.Errorf("%s: %w", tag, err)
	}

	d := Decomposition{Values: vals, Vectors: vecs}
	if err = d.Validate(); err != nil {
		return Decomposition{}, fmt.Errorf("%s: %w", tag, err)
	}

	return d, nil
}

// identityIndex returns [0, 1, …, n-1].
func identityIndex(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	return idx
}
