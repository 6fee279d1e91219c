// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model

import (
	"sort"

	"github.com/tether-ml/tether/framework"
)

// TrainingParams holds the run parameters attached to a training
// history.
type TrainingParams struct {
	Epochs            int
	Steps             int
	BatchSize         int
	Samples           int
	ValidationSamples int
	Verbose           int
	Metrics           []string
}

// History is the reshaped training record: a uniform mapping from
// metric name to one value per epoch, plus the run parameters.
type History struct {
	Params TrainingParams

	// Epoch lists epoch indices in training order.
	Epoch []int

	// Metrics maps each metric name to its ordered per-epoch values,
	// aligned with Epoch.
	Metrics map[string][]float64

	// MetricNames lists the keys of Metrics in sorted order, for
	// deterministic iteration.
	MetricNames []string
}

// newHistory reshapes a framework training record into the uniform
// per-metric form. Reshaping is idempotent: feeding a History's
// metric series back through it yields the same mapping.
func newHistory(raw *framework.RawHistory, params TrainingParams) *History {
	h := &History{
		Params:  params,
		Metrics: make(map[string][]float64),
	}
	if raw == nil {
		return h
	}

	epochs := 0
	for name, series := range raw.Metrics {
		vals := make([]float64, len(series))
		copy(vals, series)
		h.Metrics[name] = vals
		h.MetricNames = append(h.MetricNames, name)
		if len(series) > epochs {
			epochs = len(series)
		}
	}
	sort.Strings(h.MetricNames)

	if len(raw.Epoch) > 0 {
		h.Epoch = make([]int, len(raw.Epoch))
		copy(h.Epoch, raw.Epoch)
	} else {
		h.Epoch = make([]int, epochs)
		for i := range h.Epoch {
			h.Epoch[i] = i
		}
	}

	if len(h.Params.Metrics) == 0 {
		h.Params.Metrics = h.MetricNames
	}
	return h
}

// Epochs returns the number of recorded epochs.
func (h *History) Epochs() int { return len(h.Epoch) }

// Series returns the per-epoch values of one metric, or nil if the
// metric was not recorded.
func (h *History) Series(name string) []float64 { return h.Metrics[name] }

// Final returns the last recorded value of one metric.
func (h *History) Final(name string) (float64, bool) {
	series := h.Metrics[name]
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1], true
}
