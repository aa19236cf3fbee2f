// SPDX-License-Identifier: MIT

package rankreduce

import (
	"fmt"
	"math"
)

// Classification is the outcome category of a decomposition.
type Classification int

const (
	// ProperResult: the requested (or clamped-to-n) rank was achieved.
	ProperResult Classification = iota
	// RankClipped: fewer eigenvalues than requested are strictly positive;
	// State.Rank reports the smaller achieved rank.
	RankClipped
	// NumericalFailure: a solver or optimizer failed mid-way; B is the best
	// candidate obtained before the failure.
	NumericalFailure
)

var classificationNames = [...]string{
	ProperResult:     "proper",
	RankClipped:      "rank-clipped",
	NumericalFailure: "numerical-failure",
}

// String returns the stable lower-case name used in logs, metrics and documents.
func (c Classification) String() string {
	if c < 0 || int(c) >= len(classificationNames) {
		return fmt.Sprintf("Classification(%d)", int(c))
	}

	return classificationNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Classification) UnmarshalText(b []byte) error {
	for i, name := range classificationNames {
		if name == string(b) {
			*c = Classification(i)
			return nil
		}
	}

	return fmt.Errorf("rankreduce: unknown classification %q", b)
}

// State describes how a decomposition went.
type State struct {
	// Rank is the number of columns of B (≤ the requested rank).
	Rank int `json:"rank" yaml:"rank"`
	// Iterations counts EZI refits or SAP optimizer major iterations (EZN: 1).
	Iterations int `json:"iterations" yaml:"iterations"`
	// Evaluations counts eigen-decompositions plus objective evaluations.
	Evaluations int `json:"evaluations" yaml:"evaluations"`
	// Residual is ‖B·Bᵀ − C‖²_F over all entries.
	Residual float64 `json:"residual" yaml:"residual"`
	// Objective is the optimizer's final off-diagonal objective (SAP only).
	Objective float64 `json:"objective,omitempty" yaml:"objective,omitempty"`
	// Classification is the outcome category.
	Classification Classification `json:"classification" yaml:"classification"`
	// Converged is false when EZI hit its iteration cap or SAP's optimizer
	// ran out of budget.
	Converged bool `json:"converged" yaml:"converged"`
}

// ResidualNorm returns ‖B·Bᵀ − C‖_F.
func (s State) ResidualNorm() float64 { return math.Sqrt(s.Residual) }
