// SPDX-License-Identifier: MIT

package eigen

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/rankreduce/matrix"
)

// ErrDecompositionFailed reports that a solver could not factorise its input
// or produced non-finite output.
var ErrDecompositionFailed = errors.New("eigen: decomposition failed")

// Solver decomposes a symmetric matrix A into V·diag(λ)·Vᵀ.
//
// Implementations must be safe for concurrent use and must not mutate a.
type Solver interface {
	Decompose(a matrix.Matrix) (Decomposition, error)
}

// Decomposition holds eigenpairs of a symmetric n×n matrix.
// Values are ascending; column j of Vectors is the unit eigenvector of Values[j].
type Decomposition struct {
	Values  []float64
	Vectors *matrix.Dense
}

// Len returns the number of eigenpairs.
func (d Decomposition) Len() int { return len(d.Values) }

// Validate checks that d is a usable decomposition: at least one eigenpair,
// a Vectors matrix with one column per value and no NaN/±Inf anywhere.
// Callers holding a Decomposition from an arbitrary Solver run it before
// trusting the numbers.
func (d Decomposition) Validate() error {
	if len(d.Values) == 0 || d.Vectors == nil {
		return fmt.Errorf("Validate: empty decomposition: %w", ErrDecompositionFailed)
	}
	if d.Vectors.Cols() != len(d.Values) {
		return fmt.Errorf("Validate: %d vectors for %d values: %w",
			d.Vectors.Cols(), len(d.Values), ErrDecompositionFailed)
	}
	for j, v := range d.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("Validate: eigenvalue %d is %v: %w", j, v, ErrDecompositionFailed)
		}
	}
	var bad error
	d.Vectors.Do(func(i, j int, v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad = fmt.Errorf("Validate: eigenvector entry (%d,%d) is %v: %w", i, j, v, ErrDecompositionFailed)
			return false
		}
		return true
	})

	return bad
}

// Descending returns a copy of d with eigenpairs ordered by decreasing
// eigenvalue. Rank reducers keep the leading columns of the result.
func (d Decomposition) Descending() (Decomposition, error) {
	if d.Vectors == nil || d.Vectors.Cols() != len(d.Values) {
		return Decomposition{}, fmt.Errorf("Descending: %w", ErrDecompositionFailed)
	}
	n := len(d.Values)
	rows := d.Vectors.Rows()
	vals := make([]float64, n)
	vecs, err := matrix.NewDense(rows, n)
	if err != nil {
		return Decomposition{}, fmt.Errorf("Descending: %w", err)
	}
	var v float64
	for j := 0; j < n; j++ {
		src := n - 1 - j
		vals[j] = d.Values[src]
		for i := 0; i < rows; i++ {
			if v, err = d.Vectors.At(i, src); err != nil {
				return Decomposition{}, fmt.Errorf("Descending: %w", err)
			}
			if err = vecs.Set(i, j, v); err != nil {
				return Decomposition{}, fmt.Errorf("Descending: %w: %w", ErrDecompositionFailed, err)
			}
		}
	}

	return Decomposition{Values: vals, Vectors: vecs}, nil
}

// prepare validates a and returns its symmetric part as a fresh *Dense.
func prepare(tag string, a matrix.Matrix) (*matrix.Dense, error) {
	if err := matrix.ValidateSquareNonNil(a); err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	if err := matrix.ValidateFinite(a); err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	sym, err := matrix.Symmetrize(a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}

	return sym, nil
}
