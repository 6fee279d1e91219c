// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package framework

import (
	"github.com/tether-ml/tether/tensor"
)

// MetricFunc is a custom metric callable supplied by the host program.
// It receives true targets and predictions for one batch and returns a
// scalar metric value.
type MetricFunc func(yTrue, yPred *tensor.Tensor) float64

// MetricSpec is a metric entry in a compile call. Built-in metrics
// carry only a Name ("accuracy", "mae", ...); custom metrics carry the
// callable together with the name the caller tagged it with, which is
// the name the framework reports it under in histories and evaluate
// results.
type MetricSpec struct {
	Name string
	Fn   MetricFunc // nil for built-in metrics
}

// Callback receives training lifecycle events. The adapter injects
// callbacks (for example the interactive metrics logger); the wrapped
// framework invokes them from its training loop.
type Callback interface {
	// OnTrainBegin is called once before the first epoch.
	OnTrainBegin(info TrainingInfo)

	// OnEpochEnd is called after each epoch with the metric values
	// measured during that epoch.
	OnEpochEnd(epoch int, metrics map[string]float64)

	// OnTrainEnd is called once after the last epoch.
	OnTrainEnd()
}

// TrainingInfo describes a training run to callbacks.
type TrainingInfo struct {
	Epochs      int
	Steps       int
	BatchSize   int
	Samples     int
	MetricNames []string
}

// CompileArgs is the normalized argument set for Model.Compile.
//
// WeightedMetrics and TargetTensors are accepted by framework releases
// 2.2.0 and newer; the adapter omits them (leaves them nil) when
// talking to older releases.
type CompileArgs struct {
	Optimizer        string
	Loss             string
	Metrics          []MetricSpec
	LossWeights      []float64
	SampleWeightMode string

	// 2.2.0+ only.
	WeightedMetrics []MetricSpec
	TargetTensors   []*tensor.Tensor
}

// FitArgs is the normalized argument set for Model.Fit.
type FitArgs struct {
	X               []*tensor.Tensor
	Y               []*tensor.Tensor
	BatchSize       int
	Epochs          int
	Verbose         int
	Callbacks       []Callback
	ValidationSplit float64
	ValidationX     []*tensor.Tensor
	ValidationY     []*tensor.Tensor
	Shuffle         bool
	ClassWeight     map[int]float64
	SampleWeight    *tensor.Tensor
	InitialEpoch    int
	StepsPerEpoch   int
	ValidationSteps int
}

// EvalArgs is the normalized argument set for Model.Evaluate.
type EvalArgs struct {
	X            []*tensor.Tensor
	Y            []*tensor.Tensor
	BatchSize    int
	Verbose      int
	SampleWeight *tensor.Tensor
	Steps        int
}

// PredictArgs is the normalized argument set for Model.Predict and its
// variants.
type PredictArgs struct {
	X         []*tensor.Tensor
	BatchSize int
	Verbose   int
	Steps     int
}

// BatchArgs is the argument set for the single-batch operations.
type BatchArgs struct {
	X            []*tensor.Tensor
	Y            []*tensor.Tensor
	ClassWeight  map[int]float64
	SampleWeight *tensor.Tensor
}

// GeneratorArgs is the normalized argument set for the generator-based
// training, evaluation and prediction operations.
//
// The adapter always sets Workers to 1 and UseMultiprocessing to
// false: host-language batch callables are not safe to invoke from
// multiple framework threads concurrently.
type GeneratorArgs struct {
	Generator          BatchIterator
	StepsPerEpoch      int
	Epochs             int
	Verbose            int
	Callbacks          []Callback
	ValidationData     BatchIterator
	ValidationSteps    int
	ClassWeight        map[int]float64
	MaxQueueSize       int
	Workers            int
	UseMultiprocessing bool
	InitialEpoch       int
}

// SummaryArgs controls the formatted model description. Zero values
// let the framework pick its version-dependent defaults.
type SummaryArgs struct {
	LineLength int
	Positions  []float64
}

// Batch is one unit of data produced by a generator: model inputs,
// targets, and optional per-sample weights.
type Batch struct {
	Inputs        *tensor.Tensor
	Targets       *tensor.Tensor
	SampleWeights *tensor.Tensor
}

// BatchIterator is the iterator protocol the framework's
// generator-based operations consume.
//
// Next blocks until a batch is available and returns io.EOF (or any
// producer error) when the feed ends. Stop releases the producer; it
// must be safe to call more than once.
type BatchIterator interface {
	Next() (Batch, error)
	Stop()
}

// RawHistory is the per-epoch metric record a framework training call
// returns, before the adapter reshapes it.
type RawHistory struct {
	// Params holds the run parameters the framework echoes back
	// (epochs, steps, samples, metric names, ...).
	Params map[string]any

	// Epoch lists the epoch indices in training order.
	Epoch []int

	// Metrics maps metric name to one value per epoch, aligned with
	// Epoch.
	Metrics map[string][]float64
}

// LayerRef identifies a layer by name or by 0-based index. Exactly one
// of the two is used: a non-empty Name wins, otherwise Index applies.
type LayerRef struct {
	Name  string
	Index int
}

// Layer is an opaque handle to a layer owned by the wrapped framework.
type Layer interface {
	// Name returns the layer's unique name within its model.
	Name() string

	// Config returns the layer's configuration as the framework
	// serializes it.
	Config() map[string]any
}

// Model is the wrapped framework's model object. Every method may
// return an error produced by the framework itself; the adapter
// propagates such errors unchanged.
type Model interface {
	// Compile configures the model for training. Mutates the model's
	// compiled state.
	Compile(args CompileArgs) error

	// Fit trains the model and returns the raw training history.
	Fit(args FitArgs) (*RawHistory, error)

	// Evaluate computes loss and metric values on the given data. The
	// returned slice is aligned with MetricsNames.
	Evaluate(args EvalArgs) ([]float64, error)

	// Predict runs inference and returns the model output.
	Predict(args PredictArgs) (*tensor.Tensor, error)

	// PredictProba returns class membership probabilities.
	PredictProba(args PredictArgs) (*tensor.Tensor, error)

	// PredictClasses returns predicted class indices.
	PredictClasses(args PredictArgs) (*tensor.Tensor, error)

	// TrainOnBatch runs one gradient update on a single batch and
	// returns the resulting loss/metric scalars.
	TrainOnBatch(args BatchArgs) ([]float64, error)

	// TestOnBatch evaluates a single batch.
	TestOnBatch(args BatchArgs) ([]float64, error)

	// PredictOnBatch runs inference on a single batch.
	PredictOnBatch(x []*tensor.Tensor) (*tensor.Tensor, error)

	// FitGenerator trains on batches pulled from an iterator.
	FitGenerator(args GeneratorArgs) (*RawHistory, error)

	// EvaluateGenerator evaluates on batches pulled from an iterator.
	EvaluateGenerator(args GeneratorArgs) ([]float64, error)

	// PredictGenerator predicts on batches pulled from an iterator.
	PredictGenerator(args GeneratorArgs) (*tensor.Tensor, error)

	// Layer looks a layer up by name or 0-based index.
	Layer(ref LayerRef) (Layer, error)

	// Pop removes the last layer of a sequential model.
	Pop() error

	// Summary returns the framework's formatted textual description
	// of the model. Line length and column positions depend on the
	// framework release.
	Summary(args SummaryArgs) (string, error)

	// Save writes the model to path in the framework's own format.
	Save(path string) error

	// Config returns the model architecture as the framework
	// serializes it.
	Config() (map[string]any, error)

	// MetricsNames returns the names of the values Evaluate and the
	// on-batch operations report, in reporting order.
	MetricsNames() []string

	// Version reports the wrapped framework's release version.
	Version() Version
}
