// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"github.com/tether-ml/tether/framework"
	"github.com/tether-ml/tether/generator"
	"github.com/tether-ml/tether/tensor"
)

// FitGeneratorConfig configures generator-based training.
type FitGeneratorConfig struct {
	// StepsPerEpoch is the number of batches drawn per epoch.
	// Required.
	StepsPerEpoch int

	// Epochs defaults to 1.
	Epochs int

	// Verbose defaults to 1. Pass -1 for silent.
	Verbose int

	Callbacks []framework.Callback

	// Validation supplies validation batches; ValidationSteps is
	// required when it is set.
	Validation      generator.Func
	ValidationSteps int

	ClassWeight any

	// MaxQueueSize bounds the batch queue; below 1 falls back to
	// generator.DefaultQueueSize. It never changes the worker count.
	MaxQueueSize int

	InitialEpoch int
}

// FitGenerator trains on batches produced by gen and returns the
// reshaped training history.
//
// The callable is wrapped in a single background feeder goroutine and
// the framework is pinned to one worker with multiprocessing
// disabled, regardless of the queue size: host batch callables are
// not safe to re-enter from concurrent framework threads.
func (m *Model) FitGenerator(gen generator.Func, cfg FitGeneratorConfig) (*History, error) {
	if cfg.StepsPerEpoch < 1 {
		return nil, fmt.Errorf("%w: steps per epoch not set", ErrSteps)
	}
	if cfg.Validation != nil && cfg.ValidationSteps < 1 {
		return nil, fmt.Errorf("%w: validation steps not set", ErrSteps)
	}

	epochs := orDefault(cfg.Epochs, 1)
	verbose := resolveVerbose(cfg.Verbose)
	classWeight, err := asClassWeight(cfg.ClassWeight)
	if err != nil {
		return nil, err
	}

	iter := generator.NewBackground(gen, cfg.MaxQueueSize)
	defer iter.Stop()

	var validation framework.BatchIterator
	if cfg.Validation != nil {
		valIter := generator.NewBackground(cfg.Validation, cfg.MaxQueueSize)
		defer valIter.Stop()
		validation = valIter
	}

	raw, err := m.fw.FitGenerator(m.generatorArgs(iter, generatorOpts{
		steps:           cfg.StepsPerEpoch,
		epochs:          epochs,
		verbose:         verbose,
		callbacks:       m.trainingCallbacks(cfg.Callbacks, verbose, epochs),
		validation:      validation,
		validationSteps: cfg.ValidationSteps,
		classWeight:     classWeight,
		maxQueueSize:    cfg.MaxQueueSize,
		initialEpoch:    cfg.InitialEpoch,
	}))
	if err != nil {
		return nil, err
	}

	history := newHistory(raw, TrainingParams{
		Epochs:  epochs,
		Steps:   cfg.StepsPerEpoch,
		Verbose: verbose,
	})

	if err := m.recorder.RecordProperties(map[string]any{
		"validation_steps": cfg.ValidationSteps,
	}); err != nil {
		return nil, err
	}
	return history, nil
}

// EvalGeneratorConfig configures generator-based evaluation.
type EvalGeneratorConfig struct {
	// Steps is the number of batches to draw. Required.
	Steps int

	MaxQueueSize int
}

// EvaluateGenerator evaluates on batches produced by gen, with the
// same single-worker wrapping as FitGenerator, and records an
// evaluation record as a side effect.
func (m *Model) EvaluateGenerator(gen generator.Func, cfg EvalGeneratorConfig) (*EvalResult, error) {
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("%w: steps not set", ErrSteps)
	}

	iter := generator.NewBackground(gen, cfg.MaxQueueSize)
	defer iter.Stop()

	values, err := m.fw.EvaluateGenerator(m.generatorArgs(iter, generatorOpts{
		steps:        cfg.Steps,
		maxQueueSize: cfg.MaxQueueSize,
	}))
	if err != nil {
		return nil, err
	}
	return m.recordEvaluation(values)
}

// PredictGeneratorConfig configures generator-based prediction.
type PredictGeneratorConfig struct {
	// Steps is the number of batches to draw. Required.
	Steps int

	Verbose      int
	MaxQueueSize int
}

// PredictGenerator predicts on batches produced by gen, with the same
// single-worker wrapping as FitGenerator.
func (m *Model) PredictGenerator(gen generator.Func, cfg PredictGeneratorConfig) (*tensor.Tensor, error) {
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("%w: steps not set", ErrSteps)
	}

	iter := generator.NewBackground(gen, cfg.MaxQueueSize)
	defer iter.Stop()

	return m.fw.PredictGenerator(m.generatorArgs(iter, generatorOpts{
		steps:        cfg.Steps,
		verbose:      cfg.Verbose,
		maxQueueSize: cfg.MaxQueueSize,
	}))
}

type generatorOpts struct {
	steps           int
	epochs          int
	verbose         int
	callbacks       []framework.Callback
	validation      framework.BatchIterator
	validationSteps int
	classWeight     map[int]float64
	maxQueueSize    int
	initialEpoch    int
}

// generatorArgs assembles GeneratorArgs with the worker count pinned
// to one and multiprocessing off. Only the queue size is caller
// controlled.
func (m *Model) generatorArgs(iter framework.BatchIterator, o generatorOpts) framework.GeneratorArgs {
	queue := o.maxQueueSize
	if queue < 1 {
		queue = generator.DefaultQueueSize
	}
	return framework.GeneratorArgs{
		Generator:          iter,
		StepsPerEpoch:      o.steps,
		Epochs:             o.epochs,
		Verbose:            o.verbose,
		Callbacks:          o.callbacks,
		ValidationData:     o.validation,
		ValidationSteps:    o.validationSteps,
		ClassWeight:        o.classWeight,
		MaxQueueSize:       queue,
		Workers:            1,
		UseMultiprocessing: false,
		InitialEpoch:       o.initialEpoch,
	}
}
