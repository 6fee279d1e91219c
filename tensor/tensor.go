// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"errors"
	"fmt"

	"github.com/tether-ml/tether/internal/convert"
)

// Errors surfaced by Normalize, re-exported from the conversion layer.
var (
	ErrRagged = convert.ErrRagged
	ErrType   = convert.ErrType
)

// ErrShape reports a shape/data length mismatch in New.
var ErrShape = errors.New("tensor: shape does not match data length")

// Tensor is the host-value container the adapter hands to the wrapped
// framework: a shape plus a row-major float64 buffer.
//
// The adapter never computes on tensors; it only carries values across
// the binding boundary, and it must carry them without altering their
// numeric semantics. float64 inputs are stored bit-exactly.
type Tensor struct {
	shape []int
	data  []float64
}

// New creates a tensor from an explicit shape and row-major data. The
// data slice is used directly, not copied.
func New(shape []int, data []float64) (*Tensor, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", ErrShape, d)
		}
		n *= d
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: shape %v wants %d values, got %d", ErrShape, shape, n, len(data))
	}
	return &Tensor{shape: shape, data: data}, nil
}

// Scalar creates a rank-0 tensor holding a single value.
func Scalar(v float64) *Tensor {
	return &Tensor{shape: nil, data: []float64{v}}
}

// FromSlice creates a rank-1 tensor over vs without copying.
func FromSlice(vs []float64) *Tensor {
	return &Tensor{shape: []int{len(vs)}, data: vs}
}

// FromRows creates a rank-2 tensor from a list of equal-length rows.
func FromRows(rows [][]float64) (*Tensor, error) {
	shape, data, err := convert.Flatten(rows)
	if err != nil {
		return nil, err
	}
	return &Tensor{shape: shape, data: data}, nil
}

// Shape returns the tensor's dimensions. A scalar has an empty shape.
func (t *Tensor) Shape() []int { return t.shape }

// Data returns the underlying row-major buffer.
func (t *Tensor) Data() []float64 { return t.data }

// Len returns the total number of values.
func (t *Tensor) Len() int { return len(t.data) }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.shape) }

// Rows returns the size of the leading dimension, which the adapter
// treats as the sample count. A scalar has one row.
func (t *Tensor) Rows() int {
	if len(t.shape) == 0 {
		return 1
	}
	return t.shape[0]
}

// At returns the value at the given multi-dimensional index.
func (t *Tensor) At(idx ...int) float64 {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: index rank %d does not match tensor rank %d", len(idx), len(t.shape)))
	}
	off := 0
	for i, ix := range idx {
		if ix < 0 || ix >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d (size %d)", ix, i, t.shape[i]))
		}
		off = off*t.shape[i] + ix
	}
	return t.data[off]
}

// Slice returns the rows [start, end) along the leading dimension.
// The result shares t's buffer.
func (t *Tensor) Slice(start, end int) (*Tensor, error) {
	if len(t.shape) == 0 {
		return nil, fmt.Errorf("%w: cannot slice a scalar", ErrShape)
	}
	if start < 0 || end < start || end > t.shape[0] {
		return nil, fmt.Errorf("%w: slice [%d:%d) out of range for leading dimension %d",
			ErrShape, start, end, t.shape[0])
	}
	stride := 1
	for _, d := range t.shape[1:] {
		stride *= d
	}
	shape := append([]int{end - start}, t.shape[1:]...)
	return &Tensor{shape: shape, data: t.data[start*stride : end*stride]}, nil
}

// Normalize converts a host value into a Tensor.
//
// Accepted: *Tensor (returned as-is), numeric scalars, and arbitrarily
// nested numeric slices/arrays ([]float64, []float32, []int,
// [][]float64, ...). Ragged nesting and non-numeric values are
// rejected. nil normalizes to nil, meaning "argument not supplied".
func Normalize(v any) (*Tensor, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Tensor:
		return x, nil
	case []float64:
		return FromSlice(x), nil
	}

	shape, data, err := convert.Flatten(v)
	if err != nil {
		return nil, err
	}
	return &Tensor{shape: shape, data: data}, nil
}

// NormalizeList normalizes each value in vs, for multi-input models.
// A nil entry stays nil in the result.
func NormalizeList(vs ...any) ([]*Tensor, error) {
	out := make([]*Tensor, len(vs))
	for i, v := range vs {
		t, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}
