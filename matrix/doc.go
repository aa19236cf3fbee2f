// Package matrix is the dense linear-algebra substrate of rankreduce.
//
// The package provides:
//
//   - Matrix, a minimal bounds-checked interface over a two-dimensional
//     float64 array, and Dense, its row-major implementation.
//   - Canonical kernels (Add, Sub, Mul, Transpose, Scale, Gram) with *Dense
//     fast-paths and interface fallbacks that produce identical results.
//   - Norms used as fitting metrics (FrobeniusNorm, SquaredFrobeniusDistance).
//   - A deterministic Jacobi eigen-decomposition for symmetric input.
//   - Statistics that produce correlation input from observations
//     (CenterColumns, Covariance, Correlation) and the row normalisation
//     used to restore a unit diagonal (NormalizeRowsL2).
//   - Central validators and sentinel errors, matched with errors.Is.
//
// Inputs are never mutated: every kernel allocates its result.
package matrix
