// SPDX-License-Identifier: Apache-2.0
// Package matrix_test contains unit tests for the matrix validators.
package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rankreduce/matrix"
)

// TestValidateBinarySameShape covers nil inputs, matching and mismatched dimensions.
func TestValidateBinarySameShape(t *testing.T) {
	t.Parallel()

	zeros := func(r, c int) matrix.Matrix {
		m, err := matrix.NewDense(r, c)
		require.NoError(t, err)
		return m
	}

	tests := []struct {
		name    string
		a, b    matrix.Matrix
		wantErr error
	}{
		{"both nil", nil, nil, matrix.ErrNilMatrix},
		{"first nil", nil, zeros(2, 2), matrix.ErrNilMatrix},
		{"second nil", zeros(2, 2), nil, matrix.ErrNilMatrix},
		{"equal 2x3", zeros(2, 3), zeros(2, 3), nil},
		{"row mismatch", zeros(2, 3), zeros(3, 3), matrix.ErrDimensionMismatch},
		{"col mismatch", zeros(2, 3), zeros(2, 4), matrix.ErrDimensionMismatch},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateBinarySameShape(tc.a, tc.b)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.Truef(t, errors.Is(err, tc.wantErr),
					"expected errors.Is(%v, %v)", err, tc.wantErr)
			}
		})
	}
}

func TestValidateSquareNonNilAndMul(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, matrix.ValidateSquareNonNil(nil), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateSquareNonNil(MustDense(t, 2, 3)), matrix.ErrDimensionMismatch)
	require.NoError(t, matrix.ValidateSquareNonNil(MustDense(t, 3, 3)))

	require.NoError(t, matrix.ValidateMulCompatible(MustDense(t, 2, 3), MustDense(t, 3, 1)))
	require.ErrorIs(t, matrix.ValidateMulCompatible(MustDense(t, 2, 3), MustDense(t, 2, 3)), matrix.ErrDimensionMismatch)

	require.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
	require.ErrorIs(t, matrix.ValidateVecLen(nil, 2), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch)
}

func TestValidateFinite(t *testing.T) {
	t.Parallel()
	m, err := matrix.FromRows([][]float64{{1, math.NaN()}}, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.ErrorIs(t, matrix.ValidateFinite(m), matrix.ErrNaNInf)
	require.ErrorIs(t, matrix.ValidateFinite(hide{m}), matrix.ErrNaNInf)
	require.NoError(t, matrix.ValidateFinite(MustDense(t, 2, 2)))
}

func TestValidateSymmetric(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 2, 2, []float64{1, 0.3, 0.3 + 1e-10, 1})
	require.NoError(t, matrix.ValidateSymmetric(m, 1e-9))
	require.ErrorIs(t, matrix.ValidateSymmetric(m, 1e-12), matrix.ErrAsymmetry)
	require.NoError(t, matrix.ValidateSymmetric(m, -1e-9), "negative tol is treated as |tol|")
	require.ErrorIs(t, matrix.ValidateSymmetric(m, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, matrix.ValidateSymmetric(MustDense(t, 1, 2), 0), matrix.ErrDimensionMismatch)
}

func TestIsCorrelation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rows [][]float64
		want bool
	}{
		{"uniform", [][]float64{{1, 0.3}, {0.3, 1}}, true},
		{"identity", [][]float64{{1, 0}, {0, 1}}, true},
		{"bad diagonal", [][]float64{{1.1, 0.3}, {0.3, 1}}, false},
		{"asymmetric", [][]float64{{1, 0.3}, {0.2, 1}}, false},
		{"out of range", [][]float64{{1, 1.5}, {1.5, 1}}, false},
		// Not PSD, still accepted: only structure is checked.
		{"indefinite", [][]float64{{1, 0.9, -0.9}, {0.9, 1, 0.9}, {-0.9, 0.9, 1}}, true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			m, err := matrix.FromRows(tc.rows)
			require.NoError(t, err)
			ok, err := matrix.IsCorrelation(m)
			require.NoError(t, err)
			require.Equal(t, tc.want, ok)
		})
	}

	_, err := matrix.IsCorrelation(MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	loose := NewFilledDense(t, 2, 2, []float64{1 + 1e-7, 0.3, 0.3, 1})
	ok, err := matrix.IsCorrelation(loose, matrix.WithEpsilon(1e-6))
	require.NoError(t, err)
	require.True(t, ok)
}
