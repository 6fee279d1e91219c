// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tether-ml/tether/framework"
	"github.com/tether-ml/tether/tensor"
)

// resolveBatchSize applies the default batch size: 32 if and only if
// neither a batch size nor a step count was given.
func resolveBatchSize(batchSize, steps int) int {
	if batchSize == 0 && steps == 0 {
		return defaultBatchSize
	}
	return batchSize
}

// orDefault treats the zero value of an integer option as "unset".
func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// normalizeMetrics converts a host metrics specification into the
// uniform list form the framework expects. It always produces a list,
// never a bare scalar.
//
// Accepted forms: nil, a single name, a list of names, a
// name-to-callable map (the key tags the callable with its reported
// name), a single framework.MetricSpec, or a ready list of specs.
func normalizeMetrics(v any) ([]framework.MetricSpec, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []framework.MetricSpec{{Name: x}}, nil
	case []string:
		specs := make([]framework.MetricSpec, len(x))
		for i, name := range x {
			specs[i] = framework.MetricSpec{Name: name}
		}
		return specs, nil
	case framework.MetricSpec:
		return []framework.MetricSpec{x}, nil
	case []framework.MetricSpec:
		return x, nil
	case map[string]framework.MetricFunc:
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)
		specs := make([]framework.MetricSpec, len(names))
		for i, name := range names {
			specs[i] = framework.MetricSpec{Name: name, Fn: x[name]}
		}
		return specs, nil
	case framework.MetricFunc:
		return nil, fmt.Errorf("%w: a custom metric callable needs a name, pass it in a map", ErrMetricsSpec)
	default:
		return nil, fmt.Errorf("%w: %T", ErrMetricsSpec, v)
	}
}

// asClassWeight converts a host class-weight value into the dictionary
// form the framework expects: class index to weight.
//
// Accepted forms: nil, map[int]float64, map[string]float64 with
// integer keys, and []float64 where the position is the class index.
// Anything else fails fast with ErrClassWeight.
func asClassWeight(v any) (map[int]float64, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case map[int]float64:
		out := make(map[int]float64, len(x))
		for class, weight := range x {
			out[class] = weight
		}
		return out, nil
	case map[string]float64:
		out := make(map[int]float64, len(x))
		for key, weight := range x {
			class, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("%w: key %q is not a class index", ErrClassWeight, key)
			}
			out[class] = weight
		}
		return out, nil
	case []float64:
		out := make(map[int]float64, len(x))
		for class, weight := range x {
			out[class] = weight
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrClassWeight, v)
	}
}

// normalizeInputs converts a host input value into the tensor list a
// (possibly multi-input) model expects. A []any is treated as one
// value per model input; anything else becomes a single-element list.
// nil stays nil, meaning "argument not supplied".
func normalizeInputs(v any) ([]*tensor.Tensor, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []*tensor.Tensor:
		return x, nil
	case []any:
		return tensor.NormalizeList(x...)
	default:
		t, err := tensor.Normalize(v)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, nil
		}
		return []*tensor.Tensor{t}, nil
	}
}

// sampleCount returns the leading-dimension size of the first input,
// or 0 when no inputs were supplied.
func sampleCount(xs []*tensor.Tensor) int {
	if len(xs) == 0 || xs[0] == nil {
		return 0
	}
	return xs[0].Rows()
}
