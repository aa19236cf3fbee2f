// SPDX-License-Identifier: MIT

// Package optimizer exposes scalar minimisation as a capability: "minimise
// f(x) from x0", optionally inside a box. Rank reducers receive a Minimizer
// at construction time and never depend on a concrete algorithm.
//
// Implementations:
//
//   - NelderMead: derivative-free downhill simplex (gonum/optimize).
//   - BFGS: quasi-Newton with line search (gonum/optimize); when the
//     Objective carries no gradient, central finite differences from
//     gonum/diff/fd are used.
//   - Box: wraps any Minimizer and maps an unconstrained search onto
//     [Lower, Upper] with x = lo + (hi-lo)·(1+sin z)/2, so every point the
//     objective sees is feasible.
//
// Running out of iterations or evaluations is not an error: Minimize returns
// the best point found with Result.Converged == false and leaves the retry
// policy to the caller.
package optimizer
