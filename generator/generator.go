// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package generator adapts a host batch callable into the background
// iterator protocol the wrapped framework's generator-based training,
// evaluation and prediction operations consume.
//
// Host callables are not guaranteed safe to invoke from multiple
// native threads, so the feed runs exactly one producer goroutine
// regardless of queue size, and the adapter pins the framework to one
// worker with multiprocessing disabled.
package generator

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tether-ml/tether/framework"
	"github.com/tether-ml/tether/tensor"
)

// DefaultQueueSize is the batch queue depth used when the caller does
// not supply one.
const DefaultQueueSize = 10

// ErrStopped is returned by Next after Stop has been called.
var ErrStopped = errors.New("generator: stopped")

// Batch is one unit of data as produced by a host callable: inputs,
// targets and optional per-sample weights, in any of the host value
// forms tensor.Normalize accepts.
type Batch struct {
	X            any
	Y            any
	SampleWeight any
}

// Func produces one batch per call. Returning io.EOF ends the feed
// cleanly; any other error ends it and propagates to the consumer.
// The function is only ever called from a single goroutine.
type Func func() (Batch, error)

// Background pulls batches from a Func on one producer goroutine,
// normalizes them, and buffers them on a queue. It implements
// framework.BatchIterator.
type Background struct {
	batches chan item
	quit    chan struct{}
	once    sync.Once
}

type item struct {
	batch framework.Batch
	err   error
}

// NewBackground starts the producer goroutine for fn with the given
// queue depth. Queue sizes below 1 fall back to DefaultQueueSize.
//
// Every produced batch runs through the same array normalization as
// direct fit/evaluate/predict calls before it is enqueued.
func NewBackground(fn Func, queueSize int) *Background {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}

	b := &Background{
		batches: make(chan item, queueSize),
		quit:    make(chan struct{}),
	}

	go b.produce(fn)
	return b
}

// produce is the single producer loop. It exits on io.EOF, on a
// producer error, or when Stop closes the quit channel.
func (b *Background) produce(fn Func) {
	defer close(b.batches)
	for {
		raw, err := fn()
		var batch framework.Batch
		if err == nil {
			batch, err = normalize(raw)
		}

		select {
		case b.batches <- item{batch: batch, err: err}:
			if err != nil {
				return
			}
		case <-b.quit:
			return
		}
	}
}

// normalize converts a host batch into the container form the wrapped
// framework expects.
func normalize(raw Batch) (framework.Batch, error) {
	x, err := tensor.Normalize(raw.X)
	if err != nil {
		return framework.Batch{}, fmt.Errorf("generator: inputs: %w", err)
	}
	y, err := tensor.Normalize(raw.Y)
	if err != nil {
		return framework.Batch{}, fmt.Errorf("generator: targets: %w", err)
	}
	sw, err := tensor.Normalize(raw.SampleWeight)
	if err != nil {
		return framework.Batch{}, fmt.Errorf("generator: sample weights: %w", err)
	}
	return framework.Batch{Inputs: x, Targets: y, SampleWeights: sw}, nil
}

// Next returns the next buffered batch. It returns io.EOF when the
// producer ends cleanly, the producer's error if it failed, and
// ErrStopped after Stop.
func (b *Background) Next() (framework.Batch, error) {
	// A stopped feed reports ErrStopped even while batches remain
	// buffered.
	select {
	case <-b.quit:
		return framework.Batch{}, ErrStopped
	default:
	}

	select {
	case <-b.quit:
		return framework.Batch{}, ErrStopped
	case it, ok := <-b.batches:
		if !ok {
			return framework.Batch{}, io.EOF
		}
		if it.err != nil {
			return framework.Batch{}, it.err
		}
		return it.batch, nil
	}
}

// Stop releases the producer goroutine. Safe to call more than once
// and concurrently with Next.
func (b *Background) Stop() {
	b.once.Do(func() { close(b.quit) })
}

var _ framework.BatchIterator = (*Background)(nil)
