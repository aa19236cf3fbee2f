// SPDX-License-Identifier: MIT
package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/rankreduce/matrix"
	"github.com/katalvlaran/rankreduce/rankreduce"
)

func TestReadFile_Correlation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
algorithm: ezn
rank: 2
correlation:
  - [1, 0.9, 0.7]
  - [0.9, 1, 0.3]
  - [0.7, 0.3, 1]
`), 0o600))

	in, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, in.Name)
	assert.Equal(t, "ezn", in.Algorithm)
	assert.Equal(t, 2, in.Rank)

	c, warnings, err := in.Matrix()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	v, err := c.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.3, v)
}

func TestInput_Samples(t *testing.T) {
	in := Input{Samples: [][]float64{
		{1, 2, -1},
		{2, 4.5, -2},
		{3, 5.5, -2.5},
		{4, 8, -4.2},
	}}
	c, warnings, err := in.Matrix()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	ok, err := matrix.IsCorrelation(c)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInput_Warnings(t *testing.T) {
	in := Input{Correlation: [][]float64{{1, 1.2}, {1.2, 1}}}
	_, warnings, err := in.Matrix()
	require.NoError(t, err)
	assert.Equal(t, []string{WarnNotCorrelation}, warnings)
}

func TestInput_Errors(t *testing.T) {
	cases := map[string]Input{
		"empty":     {},
		"both":      {Correlation: [][]float64{{1}}, Samples: [][]float64{{1}}},
		"ragged":    {Correlation: [][]float64{{1, 0}, {0}}},
		"rectangle": {Correlation: [][]float64{{1, 0, 0}, {0, 1, 0}}},
		"samples":   {Samples: [][]float64{{1, 2}, {3}}},
	}
	for name, in := range cases {
		_, _, err := in.Matrix()
		assert.ErrorIsf(t, err, ErrInvalidDocument, name)
	}

	_, err := Decode(strings.NewReader("correlation: {"))
	require.Error(t, err)
	_, err = ReadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestResult_EncodeRoundTrip(t *testing.T) {
	b, err := matrix.FromRows([][]float64{{1, 0}, {0.6, 0.8}})
	require.NoError(t, err)
	st := rankreduce.State{Rank: 2, Iterations: 3, Evaluations: 3, Residual: 0.5, Classification: rankreduce.RankClipped, Converged: true}

	c, err := matrix.FromRows([][]float64{{1, 0.5}, {0.5, 1}})
	require.NoError(t, err)

	bare, err := NewResult("x", rankreduce.KindEZI, b, st, nil)
	require.NoError(t, err)
	assert.Nil(t, bare.Approximation)
	assert.Nil(t, bare.Residuals)

	res, err := NewResult("x", rankreduce.KindEZI, b, st, c)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.6, 1}, res.Approximation[1], 1e-15)
	assert.InDeltaSlice(t, []float64{-0.1, 0}, res.Residuals[1], 1e-15)

	_, err = NewResult("x", rankreduce.KindEZI, b, st, mustIdentity(t, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, res, res))
	assert.Contains(t, buf.String(), "classification: rank-clipped")
	assert.Contains(t, buf.String(), "algorithm: ezi")

	dec := yaml.NewDecoder(&buf)
	var back Result
	require.NoError(t, dec.Decode(&back))
	assert.Equal(t, res, back)
}

func mustIdentity(t *testing.T, n int) *matrix.Dense {
	t.Helper()
	id, err := matrix.NewIdentity(n)
	require.NoError(t, err)

	return id
}
