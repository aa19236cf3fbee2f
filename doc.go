// Package rankreduce is a toolkit for rank-reduced correlation matrices:
// given an n×n correlation matrix C and a target rank r, find an n×r matrix B
// with unit rows such that B·Bᵀ stays close to C.
//
// 🚀 What is inside?
//
//	• matrix/     — dense matrices, kernels (Mul, Gram, Transpose…), validators,
//	                Jacobi eigen-decomposition, column statistics
//	• eigen/      — pluggable symmetric eigensolvers (gonum LAPACK, Jacobi)
//	• optimizer/  — pluggable minimisers (Nelder–Mead, BFGS, box constraints)
//	• rankreduce/ — the decomposers EZN, EZI and SAP, batch runs, angle maps
//	• cmd/rankreduce — CLI: reduce, batch, serve, version
//
// ✨ Which algorithm?
//
//   - EZN: one eigen-decomposition, truncate, normalise rows. Cheapest.
//   - EZI: repeat truncation with the diagonal reset to 1 until it settles.
//   - SAP: optimise hyperspherical row angles, seeded from EZN. Most accurate.
//
// Quick example:
//
//	c, _ := matrix.FromRows([][]float64{
//		{1, 0.9, 0.7},
//		{0.9, 1, 0.3},
//		{0.7, 0.3, 1},
//	})
//	b, st, err := rankreduce.NewEZI().Create(c, 2)
//	// b is 3×2 with unit rows, st.Residual ≈ 9.46e-5
//
//	go get github.com/katalvlaran/rankreduce
package rankreduce
