// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package frameworktest provides a scripted fake wrapped framework
// for testing the binding adapter without a native dependency.
package frameworktest

import (
	"fmt"
	"io"

	"github.com/tether-ml/tether/framework"
	"github.com/tether-ml/tether/tensor"
)

// Script holds the canned results a Fake returns. Zero values pick up
// usable defaults in New.
type Script struct {
	// Version is the framework release the fake reports. Defaults to
	// "2.2.4".
	Version string

	// History is returned by Fit and FitGenerator.
	History *framework.RawHistory

	// MetricNames is returned by MetricsNames. Defaults to ["loss"].
	MetricNames []string

	// EvalValues is returned by Evaluate and EvaluateGenerator.
	EvalValues []float64

	// BatchValues is returned by TrainOnBatch and TestOnBatch.
	BatchValues []float64

	// Predictions is returned by the predict operations.
	Predictions *tensor.Tensor

	// Layers backs Layer and Pop.
	Layers []StubLayer

	// Summary is the formatted description Summary returns.
	Summary string

	// Config is returned by Config.
	Config map[string]any

	// Err, when set, is returned by every forwarding operation, the
	// way a framework failure would propagate.
	Err error

	// Drain makes the generator operations pull their batches from
	// the iterator, exercising the feed path.
	Drain bool
}

// StubLayer is a scripted layer handle.
type StubLayer struct {
	LayerName   string
	LayerConfig map[string]any
}

// Name implements framework.Layer.
func (l StubLayer) Name() string { return l.LayerName }

// Config implements framework.Layer.
func (l StubLayer) Config() map[string]any { return l.LayerConfig }

// Fake implements framework.Model, recording every call and its
// arguments for assertions.
type Fake struct {
	Script

	// Calls lists operation names in invocation order.
	Calls []string

	LastCompile   framework.CompileArgs
	LastFit       framework.FitArgs
	LastEval      framework.EvalArgs
	LastPredict   framework.PredictArgs
	LastBatch     framework.BatchArgs
	LastGenerator framework.GeneratorArgs
	LastSummary   framework.SummaryArgs

	// Batches holds everything the generator operations drained.
	Batches []framework.Batch

	// Saved lists the paths passed to Save.
	Saved []string

	// Popped counts Pop calls.
	Popped int
}

// New creates a Fake from script, filling in defaults: version 2.2.4,
// metric names ["loss"], and a one-epoch history.
func New(script Script) *Fake {
	if script.Version == "" {
		script.Version = "2.2.4"
	}
	if script.MetricNames == nil {
		script.MetricNames = []string{"loss"}
	}
	if script.History == nil {
		script.History = &framework.RawHistory{
			Epoch:   []int{0},
			Metrics: map[string][]float64{"loss": {1.0}},
		}
	}
	return &Fake{Script: script}
}

func (f *Fake) record(op string) { f.Calls = append(f.Calls, op) }

// Compile implements framework.Model.
func (f *Fake) Compile(args framework.CompileArgs) error {
	f.record("compile")
	f.LastCompile = args
	return f.Err
}

// Fit implements framework.Model.
func (f *Fake) Fit(args framework.FitArgs) (*framework.RawHistory, error) {
	f.record("fit")
	f.LastFit = args
	if f.Err != nil {
		return nil, f.Err
	}
	return f.History, nil
}

// Evaluate implements framework.Model.
func (f *Fake) Evaluate(args framework.EvalArgs) ([]float64, error) {
	f.record("evaluate")
	f.LastEval = args
	if f.Err != nil {
		return nil, f.Err
	}
	return f.EvalValues, nil
}

// Predict implements framework.Model.
func (f *Fake) Predict(args framework.PredictArgs) (*tensor.Tensor, error) {
	f.record("predict")
	f.LastPredict = args
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Predictions, nil
}

// PredictProba implements framework.Model.
func (f *Fake) PredictProba(args framework.PredictArgs) (*tensor.Tensor, error) {
	f.record("predict_proba")
	f.LastPredict = args
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Predictions, nil
}

// PredictClasses implements framework.Model.
func (f *Fake) PredictClasses(args framework.PredictArgs) (*tensor.Tensor, error) {
	f.record("predict_classes")
	f.LastPredict = args
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Predictions, nil
}

// TrainOnBatch implements framework.Model.
func (f *Fake) TrainOnBatch(args framework.BatchArgs) ([]float64, error) {
	f.record("train_on_batch")
	f.LastBatch = args
	if f.Err != nil {
		return nil, f.Err
	}
	return f.BatchValues, nil
}

// TestOnBatch implements framework.Model.
func (f *Fake) TestOnBatch(args framework.BatchArgs) ([]float64, error) {
	f.record("test_on_batch")
	f.LastBatch = args
	if f.Err != nil {
		return nil, f.Err
	}
	return f.BatchValues, nil
}

// PredictOnBatch implements framework.Model.
func (f *Fake) PredictOnBatch(x []*tensor.Tensor) (*tensor.Tensor, error) {
	f.record("predict_on_batch")
	f.LastPredict = framework.PredictArgs{X: x}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Predictions, nil
}

// FitGenerator implements framework.Model.
func (f *Fake) FitGenerator(args framework.GeneratorArgs) (*framework.RawHistory, error) {
	f.record("fit_generator")
	f.LastGenerator = args
	if f.Err != nil {
		return nil, f.Err
	}
	if err := f.drain(args, args.StepsPerEpoch*max(args.Epochs, 1)); err != nil {
		return nil, err
	}
	return f.History, nil
}

// EvaluateGenerator implements framework.Model.
func (f *Fake) EvaluateGenerator(args framework.GeneratorArgs) ([]float64, error) {
	f.record("evaluate_generator")
	f.LastGenerator = args
	if f.Err != nil {
		return nil, f.Err
	}
	if err := f.drain(args, args.StepsPerEpoch); err != nil {
		return nil, err
	}
	return f.EvalValues, nil
}

// PredictGenerator implements framework.Model.
func (f *Fake) PredictGenerator(args framework.GeneratorArgs) (*tensor.Tensor, error) {
	f.record("predict_generator")
	f.LastGenerator = args
	if f.Err != nil {
		return nil, f.Err
	}
	if err := f.drain(args, args.StepsPerEpoch); err != nil {
		return nil, err
	}
	return f.Predictions, nil
}

func (f *Fake) drain(args framework.GeneratorArgs, n int) error {
	if !f.Drain || args.Generator == nil {
		return nil
	}
	for i := 0; i < n; i++ {
		batch, err := args.Generator.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		f.Batches = append(f.Batches, batch)
	}
	return nil
}

// Layer implements framework.Model.
func (f *Fake) Layer(ref framework.LayerRef) (framework.Layer, error) {
	f.record("get_layer")
	if f.Err != nil {
		return nil, f.Err
	}
	if ref.Name != "" {
		for _, l := range f.Layers {
			if l.LayerName == ref.Name {
				return l, nil
			}
		}
		return nil, fmt.Errorf("frameworktest: no layer named %q", ref.Name)
	}
	if ref.Index < 0 || ref.Index >= len(f.Layers) {
		return nil, fmt.Errorf("frameworktest: layer index %d out of range", ref.Index)
	}
	return f.Layers[ref.Index], nil
}

// Pop implements framework.Model.
func (f *Fake) Pop() error {
	f.record("pop")
	if f.Err != nil {
		return f.Err
	}
	if len(f.Layers) == 0 {
		return fmt.Errorf("frameworktest: no layers to pop")
	}
	f.Layers = f.Layers[:len(f.Layers)-1]
	f.Popped++
	return nil
}

// Summary implements framework.Model.
func (f *Fake) Summary(args framework.SummaryArgs) (string, error) {
	f.record("summary")
	f.LastSummary = args
	if f.Err != nil {
		return "", f.Err
	}
	return f.Script.Summary, nil
}

// Save implements framework.Model.
func (f *Fake) Save(path string) error {
	f.record("save")
	if f.Err != nil {
		return f.Err
	}
	f.Saved = append(f.Saved, path)
	return nil
}

// Config implements framework.Model.
func (f *Fake) Config() (map[string]any, error) {
	f.record("get_config")
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Script.Config, nil
}

// MetricsNames implements framework.Model.
func (f *Fake) MetricsNames() []string { return f.Script.MetricNames }

// Version implements framework.Model.
func (f *Fake) Version() framework.Version {
	return framework.MustParseVersion(f.Script.Version)
}

var _ framework.Model = (*Fake)(nil)
