// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"github.com/tether-ml/tether/callbacks"
	"github.com/tether-ml/tether/framework"
	"github.com/tether-ml/tether/tensor"
)

// FitConfig configures a training run.
//
// Integer fields follow nullable-integer coercion: the zero value
// means "not supplied" and picks up the documented default. X, Y and
// the validation arrays accept anything tensor.Normalize does, or a
// []any with one value per model input.
type FitConfig struct {
	X any
	Y any

	// BatchSize defaults to 32 when neither it nor StepsPerEpoch is
	// given.
	BatchSize int

	// Epochs defaults to 1.
	Epochs int

	// Verbose defaults to 1. Pass -1 for silent.
	Verbose int

	Callbacks       []framework.Callback
	ValidationSplit float64
	ValidationX     any
	ValidationY     any

	// NoShuffle disables the framework's default per-epoch shuffling.
	NoShuffle bool

	// ClassWeight accepts map[int]float64, map[string]float64 with
	// integer keys, or []float64 indexed by class.
	ClassWeight  any
	SampleWeight any

	InitialEpoch    int
	StepsPerEpoch   int
	ValidationSteps int
}

// Fit trains the wrapped model and returns the reshaped training
// history. As a side effect it records the run's validation sample
// count on the run recorder.
//
// When the session is interactive, verbosity is on and more than one
// epoch will run, a metrics-logging callback is injected so progress
// is visible on the terminal.
func (m *Model) Fit(cfg FitConfig) (*History, error) {
	batchSize := resolveBatchSize(cfg.BatchSize, cfg.StepsPerEpoch)
	epochs := orDefault(cfg.Epochs, 1)
	verbose := resolveVerbose(cfg.Verbose)

	x, err := normalizeInputs(cfg.X)
	if err != nil {
		return nil, fmt.Errorf("model: inputs: %w", err)
	}
	y, err := normalizeInputs(cfg.Y)
	if err != nil {
		return nil, fmt.Errorf("model: targets: %w", err)
	}
	valX, err := normalizeInputs(cfg.ValidationX)
	if err != nil {
		return nil, fmt.Errorf("model: validation inputs: %w", err)
	}
	valY, err := normalizeInputs(cfg.ValidationY)
	if err != nil {
		return nil, fmt.Errorf("model: validation targets: %w", err)
	}
	classWeight, err := asClassWeight(cfg.ClassWeight)
	if err != nil {
		return nil, err
	}
	sampleWeight, err := tensor.Normalize(cfg.SampleWeight)
	if err != nil {
		return nil, fmt.Errorf("model: sample weights: %w", err)
	}

	samples := sampleCount(x)
	validationSamples := sampleCount(valX)
	if validationSamples == 0 && cfg.ValidationSplit > 0 {
		validationSamples = int(cfg.ValidationSplit * float64(samples))
	}

	cbs := m.trainingCallbacks(cfg.Callbacks, verbose, epochs)

	raw, err := m.fw.Fit(framework.FitArgs{
		X:               x,
		Y:               y,
		BatchSize:       batchSize,
		Epochs:          epochs,
		Verbose:         verbose,
		Callbacks:       cbs,
		ValidationSplit: cfg.ValidationSplit,
		ValidationX:     valX,
		ValidationY:     valY,
		Shuffle:         !cfg.NoShuffle,
		ClassWeight:     classWeight,
		SampleWeight:    sampleWeight,
		InitialEpoch:    cfg.InitialEpoch,
		StepsPerEpoch:   cfg.StepsPerEpoch,
		ValidationSteps: cfg.ValidationSteps,
	})
	if err != nil {
		return nil, err
	}

	history := newHistory(raw, TrainingParams{
		Epochs:            epochs,
		Steps:             cfg.StepsPerEpoch,
		BatchSize:         batchSize,
		Samples:           samples,
		ValidationSamples: validationSamples,
		Verbose:           verbose,
	})

	if err := m.recorder.RecordProperties(map[string]any{
		"validation_samples": validationSamples,
	}); err != nil {
		return nil, err
	}
	return history, nil
}

// EvalResult is the named, ordered outcome of an evaluate call. Names
// and Values are aligned and follow the framework's metric reporting
// order.
type EvalResult struct {
	Names  []string
	Values []float64
}

// Value returns the metric with the given name.
func (r *EvalResult) Value(name string) (float64, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.Values[i], true
		}
	}
	return 0, false
}

// Map returns the results as a name-to-value map.
func (r *EvalResult) Map() map[string]float64 {
	out := make(map[string]float64, len(r.Names))
	for i, n := range r.Names {
		out[n] = r.Values[i]
	}
	return out
}

// EvalConfig configures an evaluation run.
type EvalConfig struct {
	X            any
	Y            any
	BatchSize    int
	Verbose      int
	SampleWeight any
	Steps        int
}

// Evaluate computes loss and metrics on the given data, re-attaching
// the framework's metric names to the returned scalars. As a side
// effect it records an evaluation record on the run recorder.
func (m *Model) Evaluate(cfg EvalConfig) (*EvalResult, error) {
	x, err := normalizeInputs(cfg.X)
	if err != nil {
		return nil, fmt.Errorf("model: inputs: %w", err)
	}
	y, err := normalizeInputs(cfg.Y)
	if err != nil {
		return nil, fmt.Errorf("model: targets: %w", err)
	}
	sampleWeight, err := tensor.Normalize(cfg.SampleWeight)
	if err != nil {
		return nil, fmt.Errorf("model: sample weights: %w", err)
	}

	values, err := m.fw.Evaluate(framework.EvalArgs{
		X:            x,
		Y:            y,
		BatchSize:    resolveBatchSize(cfg.BatchSize, cfg.Steps),
		Verbose:      cfg.Verbose,
		SampleWeight: sampleWeight,
		Steps:        cfg.Steps,
	})
	if err != nil {
		return nil, err
	}
	return m.recordEvaluation(values)
}

// recordEvaluation zips framework metric names with result scalars
// and writes the evaluation record.
func (m *Model) recordEvaluation(values []float64) (*EvalResult, error) {
	names := m.fw.MetricsNames()
	if len(names) != len(values) {
		return nil, fmt.Errorf("model: framework reported %d metric names but %d values", len(names), len(values))
	}
	result := &EvalResult{Names: names, Values: values}
	if err := m.recorder.RecordEvaluation(result.Map()); err != nil {
		return nil, err
	}
	return result, nil
}

// PredictConfig configures a prediction run.
type PredictConfig struct {
	X         any
	BatchSize int
	Verbose   int
	Steps     int
}

// Predict runs inference on the given inputs.
func (m *Model) Predict(cfg PredictConfig) (*tensor.Tensor, error) {
	args, err := m.predictArgs(cfg)
	if err != nil {
		return nil, err
	}
	return m.fw.Predict(args)
}

// PredictProba returns class membership probabilities.
func (m *Model) PredictProba(cfg PredictConfig) (*tensor.Tensor, error) {
	args, err := m.predictArgs(cfg)
	if err != nil {
		return nil, err
	}
	return m.fw.PredictProba(args)
}

// PredictClasses returns predicted class indices.
func (m *Model) PredictClasses(cfg PredictConfig) (*tensor.Tensor, error) {
	args, err := m.predictArgs(cfg)
	if err != nil {
		return nil, err
	}
	return m.fw.PredictClasses(args)
}

func (m *Model) predictArgs(cfg PredictConfig) (framework.PredictArgs, error) {
	x, err := normalizeInputs(cfg.X)
	if err != nil {
		return framework.PredictArgs{}, fmt.Errorf("model: inputs: %w", err)
	}
	return framework.PredictArgs{
		X:         x,
		BatchSize: resolveBatchSize(cfg.BatchSize, cfg.Steps),
		Verbose:   cfg.Verbose,
		Steps:     cfg.Steps,
	}, nil
}

// BatchConfig configures the single-batch operations.
type BatchConfig struct {
	X            any
	Y            any
	ClassWeight  any
	SampleWeight any
}

// TrainOnBatch runs one gradient update on a single batch.
func (m *Model) TrainOnBatch(cfg BatchConfig) ([]float64, error) {
	args, err := m.batchArgs(cfg)
	if err != nil {
		return nil, err
	}
	return m.fw.TrainOnBatch(args)
}

// TestOnBatch evaluates a single batch.
func (m *Model) TestOnBatch(cfg BatchConfig) ([]float64, error) {
	args, err := m.batchArgs(cfg)
	if err != nil {
		return nil, err
	}
	return m.fw.TestOnBatch(args)
}

// PredictOnBatch runs inference on a single batch of inputs.
func (m *Model) PredictOnBatch(x any) (*tensor.Tensor, error) {
	inputs, err := normalizeInputs(x)
	if err != nil {
		return nil, fmt.Errorf("model: inputs: %w", err)
	}
	return m.fw.PredictOnBatch(inputs)
}

func (m *Model) batchArgs(cfg BatchConfig) (framework.BatchArgs, error) {
	x, err := normalizeInputs(cfg.X)
	if err != nil {
		return framework.BatchArgs{}, fmt.Errorf("model: inputs: %w", err)
	}
	y, err := normalizeInputs(cfg.Y)
	if err != nil {
		return framework.BatchArgs{}, fmt.Errorf("model: targets: %w", err)
	}
	classWeight, err := asClassWeight(cfg.ClassWeight)
	if err != nil {
		return framework.BatchArgs{}, err
	}
	sampleWeight, err := tensor.Normalize(cfg.SampleWeight)
	if err != nil {
		return framework.BatchArgs{}, fmt.Errorf("model: sample weights: %w", err)
	}
	return framework.BatchArgs{
		X:            x,
		Y:            y,
		ClassWeight:  classWeight,
		SampleWeight: sampleWeight,
	}, nil
}

// resolveVerbose maps the nullable verbosity: 0 means "not supplied"
// and defaults to 1; -1 selects silent.
func resolveVerbose(v int) int {
	switch {
	case v == 0:
		return 1
	case v < 0:
		return 0
	default:
		return v
	}
}

// trainingCallbacks returns the caller's callbacks plus, for
// interactive verbose multi-epoch runs, the injected metrics logger.
func (m *Model) trainingCallbacks(user []framework.Callback, verbose, epochs int) []framework.Callback {
	cbs := make([]framework.Callback, len(user))
	copy(cbs, user)
	if m.interactive && verbose > 0 && epochs > 1 {
		cbs = append(cbs, callbacks.NewMetricsLogger(m.out))
	}
	return cbs
}
