// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/tether-ml/tether/framework"
	"github.com/tether-ml/tether/runs"
)

// Sentinel errors for the adapter's local fail-fast validation.
var (
	// ErrClassWeight reports a class-weight value that is neither nil
	// nor one of the accepted mapping forms.
	ErrClassWeight = errors.New("model: class_weight must be a map of class index to weight or a list of weights")

	// ErrMetricsSpec reports a metrics value the adapter cannot
	// normalize into a list of metric specifications.
	ErrMetricsSpec = errors.New("model: unsupported metrics specification")

	// ErrExists reports a save target that already exists when
	// overwrite was not confirmed.
	ErrExists = errors.New("model: path already exists")

	// ErrSteps reports a generator operation called without a step
	// count.
	ErrSteps = errors.New("model: generator operations require a step count")

	// ErrVersion reports a wrapped framework older than the adapter's
	// supported floor.
	ErrVersion = errors.New("model: unsupported framework version")
)

// defaultBatchSize is used when neither a batch size nor a step count
// is given.
const defaultBatchSize = 32

// Model wraps a framework.Model with the binding adapter surface.
//
// The adapter never owns model state; the wrapped framework does. A
// Model is therefore cheap and carries only forwarding configuration:
// the run recorder, the output stream for summaries and training
// logs, and whether the session counts as interactive.
type Model struct {
	fw          framework.Model
	recorder    runs.Recorder
	out         io.Writer
	interactive bool
}

// Option configures a Model.
type Option func(*Model)

// WithRecorder sets the run-tracking collaborator that receives
// evaluation and properties records. The default discards them.
func WithRecorder(r runs.Recorder) Option {
	return func(m *Model) { m.recorder = r }
}

// WithOutput sets the stream Summary and the injected metrics logger
// write to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(m *Model) { m.out = w }
}

// WithInteractive overrides the terminal probe that decides whether
// verbose fits get a metrics-logging callback injected.
func WithInteractive(v bool) Option {
	return func(m *Model) { m.interactive = v }
}

// New wraps fw in a binding adapter. By default the session counts as
// interactive when stdout is a terminal.
func New(fw framework.Model, opts ...Option) *Model {
	m := &Model{
		fw:          fw,
		recorder:    runs.NopRecorder{},
		out:         os.Stdout,
		interactive: isatty.IsTerminal(os.Stdout.Fd()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Framework returns the wrapped framework model.
func (m *Model) Framework() framework.Model { return m.fw }

// CompileConfig configures the model for training.
//
// Metrics accepts a single metric name, a list of names, a
// name-to-callable map (the key becomes the metric's reported name),
// or a ready []framework.MetricSpec. WeightedMetrics accepts the same
// forms and, like TargetTensors, requires framework 2.2.0 or newer.
type CompileConfig struct {
	Optimizer        string
	Loss             string
	Metrics          any
	LossWeights      []float64
	SampleWeightMode string
	WeightedMetrics  any
	TargetTensors    []any
}

// Compile configures the wrapped model for training and returns the
// same adapter to support call chaining. The compiled state lives
// inside the framework; the adapter only assembles the argument set.
func (m *Model) Compile(cfg CompileConfig) (*Model, error) {
	v := m.fw.Version()
	if v.Less(framework.MinVersion) {
		return nil, fmt.Errorf("%w: %s (need at least %s)", ErrVersion, v, framework.MinVersion)
	}

	metrics, err := normalizeMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	args := framework.CompileArgs{
		Optimizer:        cfg.Optimizer,
		Loss:             cfg.Loss,
		Metrics:          metrics,
		LossWeights:      cfg.LossWeights,
		SampleWeightMode: cfg.SampleWeightMode,
	}

	// Weighted metrics and explicit target placeholders only exist
	// from framework 2.2.0 on.
	if cfg.WeightedMetrics != nil || len(cfg.TargetTensors) > 0 {
		if !v.AtLeast(2, 2, 0) {
			return nil, fmt.Errorf("%w: weighted metrics and target tensors need framework 2.2.0, have %s",
				ErrVersion, v)
		}
		weighted, err := normalizeMetrics(cfg.WeightedMetrics)
		if err != nil {
			return nil, err
		}
		targets, err := normalizeInputs(listOrNil(cfg.TargetTensors))
		if err != nil {
			return nil, err
		}
		args.WeightedMetrics = weighted
		args.TargetTensors = targets
	}

	if err := m.fw.Compile(args); err != nil {
		return nil, err
	}
	return m, nil
}

// GetLayer looks a layer up by its unique name.
func (m *Model) GetLayer(name string) (framework.Layer, error) {
	return m.fw.Layer(framework.LayerRef{Name: name})
}

// GetLayerAt looks a layer up by 0-based index.
func (m *Model) GetLayerAt(index int) (framework.Layer, error) {
	return m.fw.Layer(framework.LayerRef{Index: index})
}

// Pop removes the last layer of a sequential model.
func (m *Model) Pop() error {
	return m.fw.Pop()
}

// Summary writes the framework's formatted model description to the
// adapter's output stream. Line length and column positions are
// framework-version-dependent.
func (m *Model) Summary() error {
	return m.SummaryTo(m.out)
}

// SummaryTo writes the model description to w.
func (m *Model) SummaryTo(w io.Writer) error {
	text, err := m.fw.Summary(framework.SummaryArgs{})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return err
	}
	if len(text) > 0 && text[len(text)-1] != '\n' {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// Save writes the model to path in the framework's own format. If the
// path exists and overwrite is false, Save fails locally without
// touching the framework: a non-interactive overwrite needs explicit
// confirmation.
func (m *Model) Save(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s (pass overwrite to replace it)", ErrExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return m.fw.Save(path)
}

// ConfigYAML returns the model architecture, as reported by the
// framework, marshalled to YAML.
func (m *Model) ConfigYAML() ([]byte, error) {
	cfg, err := m.fw.Config()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(cfg)
}

// listOrNil turns an empty []any into nil so normalizeInputs treats
// it as "not supplied".
func listOrNil(vs []any) any {
	if len(vs) == 0 {
		return nil
	}
	return vs
}
