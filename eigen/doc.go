// SPDX-License-Identifier: MIT

// Package eigen provides symmetric eigen-decomposition behind a small
// capability interface, so rank reducers can be handed any solver at
// construction time.
//
// Two implementations ship with the package:
//
//   - Gonum wraps gonum's mat.EigenSym (LAPACK dsyev semantics). It is the
//     default and the fastest choice for n beyond a few dozen.
//   - Jacobi wraps matrix.Eigen, the classical cyclic-pivot Jacobi method.
//     It is slower but fully deterministic and dependency-free, which makes it
//     a good reference in tests.
//
// Both return eigenvalues in ascending order with eigenvectors stored as the
// columns of Decomposition.Vectors, and both tolerate indefinite input:
// correlation matrices adjusted to market quotes are frequently not positive
// semi-definite.
//
// Inputs are symmetrised ((A+Aᵀ)/2) before decomposition, so tiny asymmetries
// from rounding never change which triangle a solver reads.
package eigen
