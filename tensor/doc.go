// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the host-value container Tether passes
// across the binding boundary.
//
// # Overview
//
// A Tensor here is deliberately inert: a shape and a row-major float64
// buffer, nothing more. All computation happens inside the wrapped
// framework; this package only normalizes host values (scalars,
// vectors, matrices, nested lists) into the container shape the
// framework expects.
//
// # Basic Usage
//
//	x, err := tensor.Normalize([][]float64{{1, 2}, {3, 4}})
//	y := tensor.FromSlice([]float64{0, 1})
//
// Normalize accepts any nested numeric slice via reflection:
//
//	t, err := tensor.Normalize([][]int{{1, 0}, {0, 1}})  // shape [2 2]
//
// Ragged nesting and non-numeric values are rejected with ErrRagged
// and ErrType respectively.
//
// # Numeric Fidelity
//
// The adapter must not silently alter the numeric semantics of values
// it forwards: float64 inputs are stored bit-exactly, and other
// numeric types are converted by value, never rounded through an
// intermediate representation.
package tensor
