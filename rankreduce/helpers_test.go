// SPDX-License-Identifier: MIT
package rankreduce_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rankreduce/eigen"
	"github.com/katalvlaran/rankreduce/matrix"
	"github.com/katalvlaran/rankreduce/optimizer"
)

// Reference inputs from the rank-reduction literature.
var (
	rowsPoint3 = [][]float64{
		{1, 0.9, 0.7},
		{0.9, 1, 0.3},
		{0.7, 0.3, 1},
	}
	rowsPoint4 = [][]float64{
		{1, 0.9, 0.7},
		{0.9, 1, 0.4},
		{0.7, 0.4, 1},
	}
)

func mustRows(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)

	return m
}

// blendedToeplitz returns C[i,j] = 0.5 + 0.5·exp(−0.05|i−j|).
func blendedToeplitz(t testing.TB, n int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	require.NoError(t, m.Apply(func(i, j int, _ float64) float64 {
		return 0.5 + 0.5*math.Exp(-0.05*math.Abs(float64(i-j)))
	}))

	return m
}

// sampleCorrelation builds an n×n correlation matrix from Gaussian samples.
func sampleCorrelation(t testing.TB, n int, seed int64) matrix.Matrix {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	x, err := matrix.NewDense(4*n, n)
	require.NoError(t, err)
	require.NoError(t, x.Apply(func(_, _ int, _ float64) float64 { return rng.NormFloat64() }))
	c, _, _, err := matrix.Correlation(x)
	require.NoError(t, err)

	return c
}

// requireRowNorms checks every row norm against want within eps; with
// atMost set it only checks ‖row‖ ≤ want + eps.
func requireRowNorms(t testing.TB, b *matrix.Dense, want, eps float64, atMost bool) {
	t.Helper()
	for i := 0; i < b.Rows(); i++ {
		row, err := b.Row(i)
		require.NoError(t, err)
		var sq float64
		for _, v := range row {
			sq += v * v
		}
		norm := math.Sqrt(sq)
		if atMost {
			require.LessOrEqualf(t, norm, want+eps, "row %d", i)
			continue
		}
		require.InDeltaf(t, want, norm, eps, "row %d", i)
	}
}

// requireColumnUpToSign checks column j of b equals want or −want within tol.
func requireColumnUpToSign(t testing.TB, b *matrix.Dense, j int, want []float64, tol float64) {
	t.Helper()
	sign := 1.0
	first, err := b.At(0, j)
	require.NoError(t, err)
	if first*want[0] < 0 {
		sign = -1
	}
	for i := range want {
		v, err := b.At(i, j)
		require.NoError(t, err)
		require.InDeltaf(t, want[i], sign*v, tol, "column %d row %d", j, i)
	}
}

var errInjected = errors.New("injected failure")

// flakySolver delegates the first okCalls decompositions, then fails.
// Not safe for concurrent use.
type flakySolver struct {
	okCalls int
	calls   *int
}

func newFlakySolver(okCalls int) flakySolver {
	return flakySolver{okCalls: okCalls, calls: new(int)}
}

func (f flakySolver) Decompose(a matrix.Matrix) (eigen.Decomposition, error) {
	*f.calls++
	if *f.calls > f.okCalls {
		return eigen.Decomposition{}, errInjected
	}

	return eigen.Gonum{}.Decompose(a)
}

// corruptingSolver delegates to eigen.Gonum and, after okCalls clean
// decompositions, lets corrupt rewrite the result before handing it out.
// Not safe for concurrent use.
type corruptingSolver struct {
	okCalls int
	calls   *int
	corrupt func(d *eigen.Decomposition) error
}

func (c corruptingSolver) Decompose(a matrix.Matrix) (eigen.Decomposition, error) {
	*c.calls++
	d, err := eigen.Gonum{}.Decompose(a)
	if err != nil || *c.calls <= c.okCalls {
		return d, err
	}

	return d, c.corrupt(&d)
}

// poisonVector writes v into the leading (largest-eigenvalue) eigenvector.
func poisonVector(v float64) func(d *eigen.Decomposition) error {
	return func(d *eigen.Decomposition) error {
		rows := d.Vectors.ToRows()
		rows[0][len(d.Values)-1] = v
		vecs, err := matrix.FromRows(rows, matrix.WithNoValidateNaNInf())
		if err != nil {
			return err
		}
		d.Vectors = vecs
		return nil
	}
}

// poisonValue overwrites the largest eigenvalue with v.
func poisonValue(v float64) func(d *eigen.Decomposition) error {
	return func(d *eigen.Decomposition) error {
		d.Values[len(d.Values)-1] = v
		return nil
	}
}

// failingMinimizer returns its start point together with an error.
type failingMinimizer struct{}

func (failingMinimizer) Minimize(obj optimizer.Objective, x0 []float64) (optimizer.Result, error) {
	x := append([]float64(nil), x0...)

	return optimizer.Result{X: x, F: obj.Func(x), Evaluations: 1}, errInjected
}
