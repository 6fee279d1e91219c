// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package runs records training-run metadata as a side effect of the
// adapter's fit and evaluate operations.
//
// Two record kinds exist: an evaluation record holding named metric
// results, written after evaluate calls, and a properties record
// holding run parameters such as validation sample counts, written
// after fit calls.
package runs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Recorder is the run-tracking collaborator the adapter writes to.
type Recorder interface {
	// RecordEvaluation stores named metric results from an evaluate
	// call. A later call replaces the stored record.
	RecordEvaluation(metrics map[string]float64) error

	// RecordProperties stores run properties from a fit call.
	// Properties merge across calls; later values win per key.
	RecordProperties(props map[string]any) error
}

// NopRecorder discards all records. It is the adapter's default.
type NopRecorder struct{}

// RecordEvaluation implements Recorder.
func (NopRecorder) RecordEvaluation(map[string]float64) error { return nil }

// RecordProperties implements Recorder.
func (NopRecorder) RecordProperties(map[string]any) error { return nil }

// FileRecorder writes records under <dir>/<runID>/ as YAML files:
// evaluation.yaml and properties.yaml. The run ID is generated once
// per recorder.
type FileRecorder struct {
	dir   string
	runID string
	props map[string]any
}

// NewFileRecorder creates the run directory under dir and returns a
// recorder bound to a fresh run ID.
func NewFileRecorder(dir string) (*FileRecorder, error) {
	r := &FileRecorder{
		dir:   dir,
		runID: uuid.NewString(),
		props: make(map[string]any),
	}
	if err := os.MkdirAll(r.RunDir(), 0o755); err != nil {
		return nil, fmt.Errorf("runs: create run directory: %w", err)
	}
	return r, nil
}

// RunID returns the recorder's run identifier.
func (r *FileRecorder) RunID() string { return r.runID }

// RunDir returns the directory this run's records are written to.
func (r *FileRecorder) RunDir() string { return filepath.Join(r.dir, r.runID) }

// RecordEvaluation implements Recorder, replacing any previous
// evaluation record.
func (r *FileRecorder) RecordEvaluation(metrics map[string]float64) error {
	return r.write("evaluation.yaml", metrics)
}

// RecordProperties implements Recorder, merging props into the
// properties recorded so far.
func (r *FileRecorder) RecordProperties(props map[string]any) error {
	for k, v := range props {
		r.props[k] = v
	}
	return r.write("properties.yaml", r.props)
}

func (r *FileRecorder) write(name string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("runs: marshal %s: %w", name, err)
	}
	path := filepath.Join(r.RunDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("runs: write %s: %w", name, err)
	}
	return nil
}

var (
	_ Recorder = NopRecorder{}
	_ Recorder = (*FileRecorder)(nil)
)
