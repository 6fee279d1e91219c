// Package convert flattens host-language values into shaped float64
// buffers for the public tensor package.
package convert

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrRagged reports nested slices whose lengths disagree along an axis.
var ErrRagged = errors.New("convert: ragged nested slice")

// ErrType reports a value that is neither numeric nor a (nested)
// numeric slice.
var ErrType = errors.New("convert: unsupported value type")

// Flatten converts v into a shape and a row-major float64 buffer.
//
// Accepted inputs: any numeric scalar, and arbitrarily nested slices
// or arrays of numeric scalars. float64 values pass through
// bit-exactly; other numeric types are value-converted.
func Flatten(v any) (shape []int, data []float64, err error) {
	rv := reflect.ValueOf(v)
	shape, err = measure(rv, 0)
	if err != nil {
		return nil, nil, err
	}

	n := 1
	for _, d := range shape {
		n *= d
	}
	data = make([]float64, 0, n)
	data, err = fill(rv, data)
	if err != nil {
		return nil, nil, err
	}
	return shape, data, nil
}

// measure walks the nesting to determine the shape, validating that
// every sub-slice along an axis has the same length.
func measure(rv reflect.Value, depth int) ([]int, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		if n == 0 {
			return []int{0}, nil
		}
		inner, err := measure(rv.Index(0), depth+1)
		if err != nil {
			return nil, err
		}
		for i := 1; i < n; i++ {
			other, err := measure(rv.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			if !equalInts(inner, other) {
				return nil, fmt.Errorf("%w: axis %d, element 0 has shape %v but element %d has shape %v",
					ErrRagged, depth, inner, i, other)
			}
		}
		return append([]int{n}, inner...), nil
	case reflect.Interface:
		return measure(rv.Elem(), depth)
	default:
		if !isNumeric(rv) {
			return nil, fmt.Errorf("%w: %s", ErrType, kindOf(rv))
		}
		return nil, nil
	}
}

func fill(rv reflect.Value, data []float64) ([]float64, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		var err error
		for i := 0; i < rv.Len(); i++ {
			data, err = fill(rv.Index(i), data)
			if err != nil {
				return nil, err
			}
		}
		return data, nil
	case reflect.Interface:
		return fill(rv.Elem(), data)
	default:
		f, ok := asFloat(rv)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrType, kindOf(rv))
		}
		return append(data, f), nil
	}
}

func isNumeric(rv reflect.Value) bool {
	_, ok := asFloat(rv)
	return ok
}

func asFloat(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

func kindOf(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}
	return rv.Type().String()
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
