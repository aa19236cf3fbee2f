// SPDX-License-Identifier: MIT

package rankreduce

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a nil, empty, non-square or non-finite input
	// matrix, or a target rank below 1. No partial result accompanies it.
	ErrInvalidInput = errors.New("rankreduce: invalid input")

	// ErrNumericalFailure indicates the eigensolver or optimizer failed before
	// any candidate B existed.
	ErrNumericalFailure = errors.New("rankreduce: numerical failure")
)

// decompErrorf wraps err with an operation tag, preserving it for errors.Is.
func decompErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
