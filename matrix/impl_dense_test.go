// SPDX-License-Identifier: MIT
package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rankreduce/matrix"
)

func TestNewDense_InvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 3}} {
		_, err := matrix.NewDense(dims[0], dims[1])
		require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	}
}

func TestNewDense_ZeroInitialised(t *testing.T) {
	m := MustDense(t, 2, 3)
	r, c := m.Shape()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	m.Do(func(_, _ int, v float64) bool {
		assert.Zero(t, v)
		return true
	})
}

func TestNewDenseFrom(t *testing.T) {
	m := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	assert.Equal(t, 3.0, MustAt(t, m, 1, 0))

	_, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestFromRows(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]float64
		opts    []matrix.Option
		wantErr error
	}{
		{"ok", [][]float64{{1, 0.5}, {0.5, 1}}, nil, nil},
		{"empty", nil, nil, matrix.ErrInvalidDimensions},
		{"empty first row", [][]float64{{}}, nil, matrix.ErrInvalidDimensions},
		{"ragged", [][]float64{{1, 2}, {3}}, nil, matrix.ErrRaggedRows},
		{"nan rejected", [][]float64{{1, math.NaN()}}, nil, matrix.ErrNaNInf},
		{"inf allowed", [][]float64{{1, math.Inf(1)}}, []matrix.Option{matrix.WithNoValidateNaNInf()}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := matrix.FromRows(tc.rows, tc.opts...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.rows, m.ToRows())
		})
	}
}

func TestDense_AtSetBounds(t *testing.T) {
	m := MustDense(t, 2, 2)
	_, err := m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(-1)), matrix.ErrNaNInf)
	require.NoError(t, m.Set(1, 1, 7))
	assert.Equal(t, 7.0, MustAt(t, m, 1, 1))
}

func TestDense_CloneIsDeep(t *testing.T) {
	m := NewFilledDense(t, 1, 2, []float64{1, 2})
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9))
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))
	assert.Equal(t, 9.0, MustAt(t, c, 0, 0))
}

func TestDense_RowAndRawRow(t *testing.T) {
	m := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	row, err := m.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, row)
	row[0] = 99
	assert.Equal(t, 3.0, MustAt(t, m, 1, 0), "Row must copy")

	raw := m.RawRow(0)
	raw[1] = 42
	assert.Equal(t, 42.0, MustAt(t, m, 0, 1), "RawRow must alias")

	_, err = m.Row(5)
	assert.True(t, errors.Is(err, matrix.ErrOutOfRange))
}

func TestDense_InducedAndLeadingColumns(t *testing.T) {
	m := NewFilledDense(t, 2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	sub, err := m.Induced([]int{1, 0}, []int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{6, 4}, {3, 1}}, sub.ToRows())

	lead, err := m.LeadingColumns(2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {4, 5}}, lead.ToRows())

	_, err = m.Induced([]int{0}, []int{3})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.LeadingColumns(0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestDense_DoStopsEarlyAndApply(t *testing.T) {
	m := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	visited := 0
	m.Do(func(i, j int, v float64) bool {
		visited++
		return v < 2
	})
	assert.Equal(t, 2, visited)

	require.NoError(t, m.Apply(func(i, j int, v float64) float64 { return v * 10 }))
	assert.Equal(t, [][]float64{{10, 20}, {30, 40}}, m.ToRows())

	err := m.Apply(func(i, j int, v float64) float64 { return math.NaN() })
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestDense_String(t *testing.T) {
	m := NewFilledDense(t, 2, 2, []float64{1, 0.5, 0.5, 1})
	assert.Equal(t, "[1, 0.5]\n[0.5, 1]\n", m.String())
}
