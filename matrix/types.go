// SPDX-License-Identifier: MIT

// Package matrix: the Matrix interface shared by all kernels.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Correlation inputs, loading matrices and reconstructions all travel through
// this interface; kernels type-assert to *Dense to reach the flat buffer and
// fall back to At/Set for foreign implementations.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid, ErrNaNInf when the
	// implementation enforces a finite-only policy.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}
