// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package capability probes the environment for optional features.
//
// Probes are best-effort capability checks, not error paths: any
// internal failure, including a panic inside a probed library, turns
// into a negative result rather than propagating.
package capability

import (
	"github.com/klauspost/cpuid/v2"
	"github.com/pkoukk/tiktoken-go"
	"gopkg.in/yaml.v3"
)

// Serialization reports whether YAML serialization round-trips in
// this environment.
func Serialization() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	in := map[string]any{"probe": 1}
	raw, err := yaml.Marshal(in)
	if err != nil {
		return false
	}
	var out map[string]any
	return yaml.Unmarshal(raw, &out) == nil
}

// Tokenizer reports whether the named BPE encoding can be loaded.
// Encodings may require a one-time asset download, so this can be
// false on machines without network access.
func Tokenizer(encodingName string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	enc, err := tiktoken.GetEncoding(encodingName)
	return err == nil && enc != nil
}

// SIMD returns the CPU's feature set as reported by cpuid. Empty on
// platforms cpuid cannot read.
func SIMD() (features []string) {
	defer func() {
		if recover() != nil {
			features = nil
		}
	}()

	return cpuid.CPU.FeatureSet()
}

// Report collects all probes into one map, suitable for logging or
// serializing next to run metadata.
func Report() map[string]any {
	return map[string]any{
		"cpu":           cpuid.CPU.BrandName,
		"cores":         cpuid.CPU.PhysicalCores,
		"simd":          SIMD(),
		"serialization": Serialization(),
	}
}
