// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package framework defines the contract between the Tether binding
// adapter and the wrapped deep-learning framework.
//
// # Overview
//
// Tether does not implement tensor computation, automatic
// differentiation, GPU dispatch, or optimizer math. All of that lives
// behind the Model interface declared here; the adapter in package
// model only marshals arguments into the structs of this package and
// forwards the call.
//
// The package defines:
//   - Model: the wrapped framework's model object
//   - Layer: an opaque layer handle owned by the framework
//   - CompileArgs, FitArgs, EvalArgs, ...: normalized argument sets
//   - RawHistory: the per-epoch metric record a training call returns
//   - Version: the framework's release version, used for gating
//     optional arguments
//   - BatchIterator: the iterator protocol generator-based training
//     consumes
//
// # Implementations
//
// A production binding links a native framework behind Model. For
// tests, frameworktest.Fake records calls and returns scripted
// results:
//
//	fw := frameworktest.New(frameworktest.Script{...})
//	m := model.New(fw)
package framework
