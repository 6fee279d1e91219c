// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model is the Tether binding adapter: an ergonomically typed,
// 1:1 mapped surface over the wrapped framework's model API.
//
// # Overview
//
// Every operation here is a thin marshalling shim. The adapter
// normalizes host values (nested slices, class-weight maps, metric
// specifications), assembles the version-gated argument set, forwards
// to the framework.Model it wraps, and reshapes the result. It never
// computes: tensor math, autodiff, GPU dispatch and optimizer updates
// all belong to the wrapped framework.
//
// # Basic Usage
//
//	m := model.New(fw)
//	_, err := m.Compile(model.CompileConfig{
//	    Optimizer: "adam",
//	    Loss:      "categorical_crossentropy",
//	    Metrics:   []string{"accuracy"},
//	})
//
//	hist, err := m.Fit(model.FitConfig{
//	    X:      inputs,
//	    Y:      targets,
//	    Epochs: 10,
//	})
//
// # Failure Semantics
//
// Argument-shape errors (malformed class weights, unnamed custom
// metrics, overwriting an existing file without confirmation) fail
// fast in this package with a descriptive error and never reach the
// framework. Everything else — shape mismatches, unknown loss names,
// numerical failures — is raised by the wrapped framework and
// propagated unchanged.
package model
