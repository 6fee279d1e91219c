// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/tether-ml/tether/tensor"
)

// TextVectorizer turns strings into fixed-length sequences of token
// IDs using an OpenAI BPE encoding.
//
// Supported encodings:
//   - cl100k_base: GPT-4, GPT-3.5-turbo
//   - p50k_base, r50k_base: GPT-3 family
type TextVectorizer struct {
	encoding *tiktoken.Tiktoken
	name     string
	maxLen   int
}

// NewTextVectorizer loads the named encoding. Sequences are truncated
// or zero-padded to maxLen tokens.
func NewTextVectorizer(encodingName string, maxLen int) (*TextVectorizer, error) {
	if maxLen < 1 {
		return nil, fmt.Errorf("data: sequence length must be positive, got %d", maxLen)
	}
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("data: load encoding %q: %w", encodingName, err)
	}
	return &TextVectorizer{encoding: encoding, name: encodingName, maxLen: maxLen}, nil
}

// Vectorize encodes texts into a [len(texts), maxLen] tensor of token
// IDs, zero-padded on the right.
func (v *TextVectorizer) Vectorize(texts []string) (*tensor.Tensor, error) {
	data := make([]float64, len(texts)*v.maxLen)
	for i, text := range texts {
		tokens := v.encoding.Encode(text, nil, nil)
		if len(tokens) > v.maxLen {
			tokens = tokens[:v.maxLen]
		}
		row := data[i*v.maxLen:]
		for j, tok := range tokens {
			row[j] = float64(tok)
		}
	}
	return tensor.New([]int{len(texts), v.maxLen}, data)
}

// Name returns the encoding name.
func (v *TextVectorizer) Name() string { return v.name }

// MaxLen returns the fixed sequence length.
func (v *TextVectorizer) MaxLen() int { return v.maxLen }

// VocabSize returns the encoding's vocabulary size.
//
// tiktoken does not expose this directly; the known sizes of the
// supported encodings are used.
func (v *TextVectorizer) VocabSize() int {
	switch v.name {
	case "cl100k_base":
		return 100256
	case "p50k_base", "r50k_base":
		return 50257
	default:
		return 100000
	}
}
