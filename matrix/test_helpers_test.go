// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures and utilities for kernels.
//   - Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rankreduce/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions.
// Use hide{X} in tests to force the non-*Dense (fallback) paths.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// NewFilledDense builds an r×c *Dense from a row-major slice.
func NewFilledDense(t testing.TB, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err)

	return m
}

// RandFilledDense returns an r×c matrix with U(-1,1) entries from a fixed seed.
func RandFilledDense(t testing.TB, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := MustDense(t, r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			require.NoError(t, m.Set(i, j, rng.Float64()*2-1))
		}
	}

	return m
}

// MustAt reads (i,j) or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// CompareClose asserts a ≈ b element-wise under AllClose semantics.
func CompareClose(t testing.TB, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(a, b, rtol, atol)
	require.NoError(t, err)
	require.Truef(t, ok, "matrices differ:\n%v\nvs\n%v", a, b)
}

// sliceClose asserts two slices are equal within |x-y| ≤ atol + rtol*|y|.
func sliceClose(t testing.TB, a, b []float64, rtol, atol float64) {
	t.Helper()
	require.Len(t, a, len(b))
	for i := range a {
		require.LessOrEqualf(t, math.Abs(a[i]-b[i]), atol+rtol*math.Abs(b[i]),
			"index %d: %v vs %v", i, a[i], b[i])
	}
}

// uniformCorrelation returns the n×n matrix with unit diagonal and rho elsewhere.
func uniformCorrelation(t testing.TB, n int, rho float64) *matrix.Dense {
	t.Helper()
	m := MustDense(t, n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := rho
			if i == j {
				v = 1
			}
			require.NoError(t, m.Set(i, j, v))
		}
	}

	return m
}
