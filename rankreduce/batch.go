// SPDX-License-Identifier: MIT

package rankreduce

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/rankreduce/matrix"
)

// Outcome is one result of CreateBatch.
type Outcome struct {
	B     *matrix.Dense
	State State
}

// CreateBatch runs d.Create on every input with at most parallelism calls in
// flight (≤ 0 means GOMAXPROCS). Outcomes keep the order of inputs.
//
// The first error cancels the calls that have not started yet and is
// returned wrapped with the input index; the outcomes slice is nil in that
// case. A cancelled ctx stops the batch the same way.
func CreateBatch(ctx context.Context, d Decomposer, inputs []matrix.Matrix, maximalRank, parallelism int) ([]Outcome, error) {
	const tag = "CreateBatch"
	if d == nil {
		return nil, decompErrorf(tag, fmt.Errorf("nil decomposer: %w", ErrInvalidInput))
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	out := make([]Outcome, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, st, err := d.Create(in, maximalRank)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			out[i] = Outcome{B: b, State: st}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, decompErrorf(tag, err)
	}

	return out, nil
}
