// Package matrix_test provides benchmarks for the kernels on the rank
// reduction hot path, using deterministic random fill for Dense matrices.
package matrix_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/rankreduce/matrix"
)

// benchSizes are the matrix sizes to benchmark.
var benchSizes = []int{16, 64, 128}

// sinks to defeat dead-code elimination
var (
	sinkM matrix.Matrix
	sinkV []float64
	sinkF float64
)

func BenchmarkGram(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			B := RandFilledDense(b, n, n/4+1, 1337)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m, err := matrix.Gram(B)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = m
			}
		})
	}
}

func BenchmarkEigen(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes[:2] {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			B := RandFilledDense(b, n, n, 4242)
			A, err := matrix.Gram(B)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				vals, _, err := matrix.Eigen(A, 1e-10, 50*n*n)
				if err != nil {
					b.Fatal(err)
				}
				sinkV = vals
			}
		})
	}
}

func BenchmarkSquaredFrobeniusDistance(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			A := RandFilledDense(b, n, n, 1)
			B := RandFilledDense(b, n, n, 2)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				d, err := matrix.SquaredFrobeniusDistance(A, B)
				if err != nil {
					b.Fatal(err)
				}
				sinkF = d
			}
		})
	}
}
