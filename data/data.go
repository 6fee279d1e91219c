// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides input-pipeline helpers: a text vectorizer for
// turning strings into padded token-ID tensors, and an in-memory
// batch source for the generator-based training operations.
package data

import (
	"fmt"

	"github.com/tether-ml/tether/generator"
	"github.com/tether-ml/tether/tensor"
)

// SliceBatches turns in-memory arrays into a cycling batch callable
// for FitGenerator and friends. Rows are drawn in order and wrap
// around at the end, so the callable never runs out; the step count
// passed to the generator operation bounds consumption.
func SliceBatches(x, y *tensor.Tensor, batchSize int) (generator.Func, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("data: inputs and targets are both required")
	}
	if x.Rank() == 0 || y.Rank() == 0 {
		return nil, fmt.Errorf("data: scalar inputs cannot be batched")
	}
	if x.Rows() != y.Rows() {
		return nil, fmt.Errorf("data: inputs have %d rows but targets have %d", x.Rows(), y.Rows())
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("data: batch size must be positive, got %d", batchSize)
	}
	if batchSize > x.Rows() {
		batchSize = x.Rows()
	}

	rows := x.Rows()
	next := 0
	return func() (generator.Batch, error) {
		start := next
		end := start + batchSize
		if end > rows {
			end = rows
		}
		next = end % rows

		bx, err := x.Slice(start, end)
		if err != nil {
			return generator.Batch{}, err
		}
		by, err := y.Slice(start, end)
		if err != nil {
			return generator.Batch{}, err
		}
		return generator.Batch{X: bx, Y: by}, nil
	}, nil
}
