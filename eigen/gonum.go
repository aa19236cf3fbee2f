// SPDX-License-Identifier: MIT

package eigen

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rankreduce/matrix"
)

// Gonum decomposes with gonum's mat.EigenSym. The zero value is ready to use.
type Gonum struct{}

var _ Solver = Gonum{}

// Decompose implements Solver.
//
// Complexity: O(n³) time, O(n²) extra space (one SymDense and one Dense).
func (Gonum) Decompose(a matrix.Matrix) (Decomposition, error) {
	const tag = "Gonum.Decompose"
	sym, err := prepare(tag, a)
	if err != nil {
		return Decomposition{}, err
	}
	n := sym.Rows()

	data := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		data = append(data, sym.RawRow(i)...)
	}

	var es mat.EigenSym
	if ok := es.Factorize(mat.NewSymDense(n, data), true); !ok {
		return Decomposition{}, fmt.Errorf("%s: %w", tag, ErrDecompositionFailed)
	}
	values := es.Values(nil) // ascending, per LAPACK dsyev

	var ev mat.Dense
	es.VectorsTo(&ev)
	raw := ev.RawMatrix()
	flat := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		flat = append(flat, raw.Data[i*raw.Stride:i*raw.Stride+n]...)
	}
	vecs, err := matrix.NewDenseFrom(n, n, flat)
	if err != nil {
		return Decomposition{}, fmt.Errorf("%s: %w: %w", tag, ErrDecompositionFailed, err)
	}

	d := Decomposition{Values: values, Vectors: vecs}
	if err = d.Validate(); err != nil {
		return Decomposition{}, fmt.Errorf("%s: %w", tag, err)
	}

	return d, nil
}
