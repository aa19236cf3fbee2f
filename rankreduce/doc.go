// SPDX-License-Identifier: MIT

// Package rankreduce reduces the rank of correlation matrices.
//
// Given an n×n symmetric matrix C with unit diagonal (not necessarily
// positive semi-definite after market-data adjustments) and a target rank r,
// a Decomposer returns a tall n×r matrix B such that B·Bᵀ approximates C in
// the Frobenius norm while staying a valid correlation matrix: the rows of B
// have unit Euclidean norm, so diag(B·Bᵀ) = 1. Replacing n correlated
// drivers by r factors this way keeps Monte-Carlo simulation tractable
// without distorting co-movements.
//
// Three algorithms implement the Decomposer contract:
//
//   - EZN (eigenvalue zeroing, normalised): keep the top-r eigenpairs,
//     scale by √max(0,λ), normalise rows. One eigen-decomposition; the
//     cheapest baseline.
//   - EZI (eigenvalue zeroing, iterative): truncate, reset the diagonal of
//     the reconstruction to 1, and repeat until the diagonal correction
//     falls below a tolerance. Closer fits than EZN for the same rank.
//   - SAP (spectral angle parametrisation): write every row of B in
//     hyperspherical coordinates, so any angle vector yields unit rows, and
//     minimise the off-diagonal squared error with a pluggable optimizer,
//     seeded from EZN. The best fit of the three and the most expensive.
//
// The eigensolver (eigen.Solver) and the optimizer (optimizer.Minimizer) are
// injected with functional options; decomposers are immutable after
// construction and safe for concurrent use. CreateBatch fans independent
// inputs out over a bounded worker group.
//
// Outcomes are reported in State. Non-convergence and rank clipping are not
// errors: the best available B is returned and State says what happened.
// Errors are reserved for invalid input (ErrInvalidInput) and for numerical
// failures that leave no candidate at all (ErrNumericalFailure).
package rankreduce
