// SPDX-License-Identifier: MIT

// Package document defines the YAML/JSON documents the CLI and the HTTP API
// exchange: an input holding either a correlation matrix or raw samples, and
// a result holding the loadings B, the state and optionally B·Bᵀ with its
// residuals.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/rankreduce/matrix"
	"github.com/katalvlaran/rankreduce/rankreduce"
)

// ErrInvalidDocument marks an input document that cannot yield a matrix.
var ErrInvalidDocument = errors.New("document: invalid input document")

// Input is a decomposition request. Exactly one of Correlation and Samples
// must be set; Samples are observations (rows) of series (columns) and are
// turned into their Pearson correlation matrix. Algorithm and Rank are
// optional overrides of the configured defaults.
type Input struct {
	Name        string      `yaml:"name,omitempty" json:"name,omitempty"`
	Algorithm   string      `yaml:"algorithm,omitempty" json:"algorithm,omitempty"`
	Rank        int         `yaml:"rank,omitempty" json:"rank,omitempty"`
	Correlation [][]float64 `yaml:"correlation,omitempty" json:"correlation,omitempty"`
	Samples     [][]float64 `yaml:"samples,omitempty" json:"samples,omitempty"`
}

// Result is the outcome of one decomposition.
type Result struct {
	ID            string           `yaml:"id,omitempty" json:"id,omitempty"`
	Name          string           `yaml:"name,omitempty" json:"name,omitempty"`
	Algorithm     string           `yaml:"algorithm" json:"algorithm"`
	State         rankreduce.State `yaml:"state" json:"state"`
	Loadings      [][]float64      `yaml:"loadings" json:"loadings"`
	Approximation [][]float64      `yaml:"approximation,omitempty" json:"approximation,omitempty"`
	Residuals     [][]float64      `yaml:"residuals,omitempty" json:"residuals,omitempty"`
	Warnings      []string         `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// Decode reads one YAML input document from r.
func Decode(r io.Reader) (Input, error) {
	var in Input
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		return Input{}, fmt.Errorf("decode input: %w", err)
	}

	return in, nil
}

// ReadFile decodes the YAML input document at path. "-" reads stdin.
func ReadFile(path string) (Input, error) {
	if path == "-" {
		return Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	in, err := Decode(f)
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", path, err)
	}
	if in.Name == "" {
		in.Name = path
	}

	return in, nil
}

// WarnNotCorrelation is reported for a square finite input that is not a
// correlation matrix within matrix.DefaultEpsilon. Decomposers still accept it.
const WarnNotCorrelation = "input is not a correlation matrix; its symmetric part is decomposed"

// Matrix returns the correlation matrix described by the document, plus
// warnings about contract violations that do not prevent a decomposition.
func (in Input) Matrix() (matrix.Matrix, []string, error) {
	switch {
	case len(in.Correlation) > 0 && len(in.Samples) > 0:
		return nil, nil, fmt.Errorf("both correlation and samples given: %w", ErrInvalidDocument)
	case len(in.Samples) > 0:
		x, err := matrix.FromRows(in.Samples)
		if err != nil {
			return nil, nil, fmt.Errorf("samples: %w: %w", ErrInvalidDocument, err)
		}
		c, _, _, err := matrix.Correlation(x)
		if err != nil {
			return nil, nil, fmt.Errorf("samples: %w: %w", ErrInvalidDocument, err)
		}

		return c, nil, nil
	case len(in.Correlation) > 0:
		c, err := matrix.FromRows(in.Correlation)
		if err != nil {
			return nil, nil, fmt.Errorf("correlation: %w: %w", ErrInvalidDocument, err)
		}
		ok, err := matrix.IsCorrelation(c)
		if err != nil {
			return nil, nil, fmt.Errorf("correlation: %w: %w", ErrInvalidDocument, err)
		}
		if !ok {
			return c, []string{WarnNotCorrelation}, nil
		}

		return c, nil, nil
	default:
		return nil, nil, fmt.Errorf("neither correlation nor samples given: %w", ErrInvalidDocument)
	}
}

// NewResult fills a Result from a decomposition. When input (the matrix that
// was decomposed) is non-nil it also stores B·Bᵀ and the residuals
// input − B·Bᵀ.
func NewResult(name string, kind rankreduce.Kind, b *matrix.Dense, st rankreduce.State, input matrix.Matrix) (Result, error) {
	res := Result{
		Name:      name,
		Algorithm: kind.String(),
		State:     st,
		Loadings:  b.ToRows(),
	}
	if input == nil {
		return res, nil
	}
	g, err := matrix.Gram(b)
	if err != nil {
		return Result{}, fmt.Errorf("approximation: %w", err)
	}
	diff, err := matrix.Sub(input, g)
	if err != nil {
		return Result{}, fmt.Errorf("residuals: %w", err)
	}
	res.Approximation = g.ToRows()
	res.Residuals = make([][]float64, diff.Rows())
	for i := range res.Residuals {
		res.Residuals[i] = make([]float64, diff.Cols())
		for j := range res.Residuals[i] {
			if res.Residuals[i][j], err = diff.At(i, j); err != nil {
				return Result{}, fmt.Errorf("residuals: %w", err)
			}
		}
	}

	return res, nil
}

// Encode writes results to w as one YAML document each.
func Encode(w io.Writer, results ...Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for i := range results {
		if err := enc.Encode(&results[i]); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}

	return enc.Close()
}
