// SPDX-License-Identifier: MIT
package rankreduce_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rankreduce/eigen"
	"github.com/katalvlaran/rankreduce/matrix"
	"github.com/katalvlaran/rankreduce/rankreduce"
)

func TestEZI_BenchmarkThreeByThree(t *testing.T) {
	for name, solver := range map[string]eigen.Solver{"gonum": eigen.Gonum{}, "jacobi": eigen.Jacobi{}} {
		t.Run(name, func(t *testing.T) {
			c := mustRows(t, rowsPoint3)
			b, st, err := rankreduce.NewEZI(rankreduce.WithEigenSolver(solver)).Create(c, 2)
			require.NoError(t, err)
			assert.Equal(t, 2, st.Rank)
			assert.Equal(t, 2, b.Cols())
			assert.True(t, st.Converged)
			assert.Equal(t, rankreduce.ProperResult, st.Classification)
			assert.InDelta(t, 0.946e-4, st.Residual, 1e-7)
			assert.Equal(t, st.Iterations, st.Evaluations)
			requireRowNorms(t, b, 1, 1e-10, false)
		})
	}
}

func TestEZN_FullRankBenchmark(t *testing.T) {
	b, st, err := rankreduce.NewEZN().Create(mustRows(t, rowsPoint4), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Rank)
	assert.Equal(t, rankreduce.ProperResult, st.Classification)

	// Reference factors, smallest eigenvalue first; our columns are descending.
	want := [][]float64{
		{0.13192, -0.10021, -0.05389},
		{-0.08718, -0.45536, 0.63329},
		{-0.98742, -0.88465, -0.77203},
	}
	for j := 0; j < 3; j++ {
		requireColumnUpToSign(t, b, j, want[2-j], 1e-4)
	}
	assert.Less(t, st.Residual, 1e-20)
}

func TestEZN_RankTwoBenchmark(t *testing.T) {
	b, st, err := rankreduce.NewEZN().Create(mustRows(t, rowsPoint3), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Rank)
	want := [][]float64{
		{-0.06238, -0.50292, 0.67290},
		{-0.99805, -0.86434, -0.73974},
	}
	requireColumnUpToSign(t, b, 0, want[1], 1e-4)
	requireColumnUpToSign(t, b, 1, want[0], 1e-4)
	assert.InDelta(t, 1.0039e-4, st.Residual, 1e-8)
	requireRowNorms(t, b, 1, 1e-10, false)
}

func TestEZI_BlendedToeplitzBenchmark(t *testing.T) {
	c := blendedToeplitz(t, 10)
	ezi := rankreduce.NewEZI()

	_, st4, err := ezi.Create(c, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.0070, st4.Residual, 1e-4)
	assert.True(t, st4.Converged)

	_, st7, err := ezi.Create(c, 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.918e-3, st7.Residual, 1e-5)
	assert.True(t, st7.Converged)
}

func TestResidual_MonotoneInRank(t *testing.T) {
	c := blendedToeplitz(t, 10)
	for _, d := range []rankreduce.Decomposer{rankreduce.NewEZI(), rankreduce.NewEZN()} {
		prev := math.Inf(1)
		for r := 1; r <= 10; r++ {
			b, st, err := d.Create(c, r)
			require.NoError(t, err)
			assert.LessOrEqualf(t, st.Residual, prev+1e-12, "%T rank %d", d, r)
			assert.Equal(t, r, st.Rank)
			requireRowNorms(t, b, 1, 1e-10, true)
			prev = st.Residual
		}
		assert.Less(t, prev, 1e-20, "full rank reproduces the input")
	}
}

func TestEZI_IterationCapIsNotAnError(t *testing.T) {
	c := blendedToeplitz(t, 10)
	b, st, err := rankreduce.NewEZI(rankreduce.WithMaxIterations(3)).Create(c, 4)
	require.NoError(t, err)
	assert.False(t, st.Converged)
	assert.Equal(t, 3, st.Iterations)
	assert.Equal(t, rankreduce.ProperResult, st.Classification)
	assert.Equal(t, 4, b.Cols())
}

func TestRankClipping(t *testing.T) {
	ones := mustRows(t, [][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})
	for _, kind := range []rankreduce.Kind{rankreduce.KindEZI, rankreduce.KindEZN, rankreduce.KindSAP} {
		d, err := rankreduce.New(kind)
		require.NoError(t, err)
		b, st, err := d.Create(ones, 2)
		require.NoError(t, err, kind)
		assert.Equal(t, rankreduce.RankClipped, st.Classification, kind)
		assert.Equal(t, 1, st.Rank, kind)
		assert.Equal(t, 1, b.Cols(), kind)
		assert.Less(t, st.Residual, 1e-20, kind)
	}
}

func TestRankAboveNIsClamped(t *testing.T) {
	b, st, err := rankreduce.NewEZN().Create(mustRows(t, rowsPoint4), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Rank)
	assert.Equal(t, 3, b.Cols())
	assert.Equal(t, rankreduce.ProperResult, st.Classification)

	// rowsPoint3 has one negative eigenvalue, so asking for n clips.
	_, st, err = rankreduce.NewEZN().Create(mustRows(t, rowsPoint3), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Rank)
	assert.Equal(t, rankreduce.RankClipped, st.Classification)
}

func TestCreate_InvalidInput(t *testing.T) {
	nanM, err := matrix.FromRows([][]float64{{1, math.NaN()}, {math.NaN(), 1}}, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	cases := []struct {
		name string
		in   matrix.Matrix
		rank int
	}{
		{"nil", nil, 1},
		{"non-square", rect, 1},
		{"nan", nanM, 1},
		{"rank zero", mustRows(t, rowsPoint3), 0},
		{"negative rank", mustRows(t, rowsPoint3), -2},
	}
	for _, kind := range []rankreduce.Kind{rankreduce.KindEZI, rankreduce.KindEZN, rankreduce.KindSAP} {
		d, err := rankreduce.New(kind)
		require.NoError(t, err)
		for _, tc := range cases {
			b, _, err := d.Create(tc.in, tc.rank)
			assert.ErrorIsf(t, err, rankreduce.ErrInvalidInput, "%v %s", kind, tc.name)
			assert.Nil(t, b)
		}
	}
}

func TestCreate_DoesNotMutateInput(t *testing.T) {
	c := mustRows(t, rowsPoint3)
	before := c.ToRows()
	for _, kind := range []rankreduce.Kind{rankreduce.KindEZI, rankreduce.KindEZN, rankreduce.KindSAP} {
		d, err := rankreduce.New(kind)
		require.NoError(t, err)
		_, _, err = d.Create(c, 2)
		require.NoError(t, err)
		assert.Equal(t, before, c.ToRows(), kind)
	}
}

func TestEZI_SolverFailure(t *testing.T) {
	c := mustRows(t, rowsPoint3)

	_, _, err := rankreduce.NewEZI(rankreduce.WithEigenSolver(newFlakySolver(0))).Create(c, 2)
	require.ErrorIs(t, err, rankreduce.ErrNumericalFailure)
	require.ErrorIs(t, err, errInjected)

	b, st, err := rankreduce.NewEZI(rankreduce.WithEigenSolver(newFlakySolver(2))).Create(c, 2)
	require.NoError(t, err)
	assert.Equal(t, rankreduce.NumericalFailure, st.Classification)
	assert.False(t, st.Converged)
	assert.Equal(t, 2, st.Iterations)
	assert.Equal(t, 3, st.Evaluations)
	requireRowNorms(t, b, 1, 1e-10, false)
}

func TestEZN_SolverFailure(t *testing.T) {
	_, _, err := rankreduce.NewEZN(rankreduce.WithEigenSolver(newFlakySolver(0))).Create(mustRows(t, rowsPoint3), 2)
	require.ErrorIs(t, err, rankreduce.ErrNumericalFailure)
}

func TestCreate_NonFiniteSolverOutput(t *testing.T) {
	c := mustRows(t, rowsPoint3)
	cases := map[string]func(d *eigen.Decomposition) error{
		"NaN vector":  poisonVector(math.NaN()),
		"+Inf vector": poisonVector(math.Inf(1)),
		"NaN value":   poisonValue(math.NaN()),
		"-Inf value":  poisonValue(math.Inf(-1)),
		"empty": func(d *eigen.Decomposition) error {
			*d = eigen.Decomposition{}
			return nil
		},
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			for _, kind := range []rankreduce.Kind{rankreduce.KindEZN, rankreduce.KindEZI, rankreduce.KindSAP} {
				s := corruptingSolver{calls: new(int), corrupt: corrupt}
				d, err := rankreduce.New(kind, rankreduce.WithEigenSolver(s))
				require.NoError(t, err)
				b, _, err := d.Create(c, 2)
				require.ErrorIs(t, err, rankreduce.ErrNumericalFailure, kind)
				require.ErrorIs(t, err, eigen.ErrDecompositionFailed, kind)
				assert.Nil(t, b, kind)
			}

			s := corruptingSolver{okCalls: 2, calls: new(int), corrupt: corrupt}
			b, st, err := rankreduce.NewEZI(rankreduce.WithEigenSolver(s)).Create(c, 2)
			require.NoError(t, err)
			assert.Equal(t, rankreduce.NumericalFailure, st.Classification)
			assert.False(t, st.Converged)
			assert.Equal(t, 2, st.Iterations)
			assert.Equal(t, 3, st.Evaluations)
			requireRowNorms(t, b, 1, 1e-10, false)
			assert.Less(t, st.Residual, 1e-2)
		})
	}
}

func TestResidual(t *testing.T) {
	c := mustRows(t, rowsPoint3)
	id, err := matrix.NewIdentity(3)
	require.NoError(t, err)
	r, err := rankreduce.Residual(c, id)
	require.NoError(t, err)
	assert.InDelta(t, 2*(0.81+0.49+0.09), r, 1e-12)

	_, err = rankreduce.Residual(nil, id)
	require.ErrorIs(t, err, rankreduce.ErrInvalidInput)
	_, err = rankreduce.Residual(c, mustRows(t, [][]float64{{1}, {1}}))
	require.ErrorIs(t, err, rankreduce.ErrInvalidInput)

	st := rankreduce.State{Residual: 4}
	assert.Equal(t, 2.0, st.ResidualNorm())
}

func TestKind(t *testing.T) {
	for _, name := range []string{"ezi", "EZN", " sap "} {
		k, err := rankreduce.ParseKind(name)
		require.NoError(t, err)
		d, err := rankreduce.New(k)
		require.NoError(t, err)
		assert.NotNil(t, d)
	}
	_, err := rankreduce.ParseKind("pca")
	require.ErrorIs(t, err, rankreduce.ErrInvalidInput)
	_, err = rankreduce.New(rankreduce.Kind(9))
	require.ErrorIs(t, err, rankreduce.ErrInvalidInput)
	assert.Equal(t, "sap", rankreduce.KindSAP.String())
	assert.Equal(t, "Kind(9)", rankreduce.Kind(9).String())
}

func TestClassification_Text(t *testing.T) {
	for _, c := range []rankreduce.Classification{rankreduce.ProperResult, rankreduce.RankClipped, rankreduce.NumericalFailure} {
		text, err := c.MarshalText()
		require.NoError(t, err)
		var back rankreduce.Classification
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}
	var c rankreduce.Classification
	assert.Error(t, c.UnmarshalText([]byte("maybe")))
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { rankreduce.WithTolerance(0) })
	assert.Panics(t, func() { rankreduce.WithTolerance(math.NaN()) })
	assert.Panics(t, func() { rankreduce.WithMaxIterations(0) })
	assert.Panics(t, func() { rankreduce.WithEigenvalueFloor(1) })
	assert.Panics(t, func() { rankreduce.WithEigenvalueFloor(-1e-3) })
	assert.Panics(t, func() { rankreduce.WithEigenSolver(nil) })
	assert.Panics(t, func() { rankreduce.WithMinimizer(nil) })
}
