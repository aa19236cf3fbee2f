// SPDX-License-Identifier: MIT
package rankreduce_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rankreduce/matrix"
	"github.com/katalvlaran/rankreduce/rankreduce"
)

func TestCreateBatch_MatchesSequential(t *testing.T) {
	inputs := []matrix.Matrix{
		mustRows(t, rowsPoint3),
		mustRows(t, rowsPoint4),
		blendedToeplitz(t, 8),
		sampleCorrelation(t, 6, 1),
		sampleCorrelation(t, 6, 2),
	}
	d := rankreduce.NewEZI()

	for _, par := range []int{0, 1, 3} {
		got, err := rankreduce.CreateBatch(context.Background(), d, inputs, 2, par)
		require.NoError(t, err)
		require.Len(t, got, len(inputs))
		for i, in := range inputs {
			b, st, err := d.Create(in, 2)
			require.NoError(t, err)
			assert.Equalf(t, st, got[i].State, "parallelism %d input %d", par, i)
			assert.Equalf(t, b.ToRows(), got[i].B.ToRows(), "parallelism %d input %d", par, i)
		}
	}
}

func TestCreateBatch_Errors(t *testing.T) {
	good := mustRows(t, rowsPoint3)
	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	_, err = rankreduce.CreateBatch(context.Background(), rankreduce.NewEZN(), []matrix.Matrix{good, rect, good}, 2, 2)
	require.ErrorIs(t, err, rankreduce.ErrInvalidInput)
	assert.Contains(t, err.Error(), "input 1")

	_, err = rankreduce.CreateBatch(context.Background(), nil, []matrix.Matrix{good}, 2, 1)
	require.ErrorIs(t, err, rankreduce.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := rankreduce.CreateBatch(ctx, rankreduce.NewEZN(), []matrix.Matrix{good, good}, 2, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

func TestCreateBatch_Empty(t *testing.T) {
	out, err := rankreduce.CreateBatch(context.Background(), rankreduce.NewSAP(), nil, 2, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}
