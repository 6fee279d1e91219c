// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package callbacks provides training callbacks the adapter can hand
// to the wrapped framework's training loop.
package callbacks

import (
	"io"
	"sort"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/tether-ml/tether/framework"
)

// MetricsLogger logs per-epoch metric values. The adapter injects it
// into interactive verbose fits that run more than one epoch, so a
// user watching a terminal sees training progress without the
// framework's own progress output being available to the host.
type MetricsLogger struct {
	logger *log.Logger
	epochs int
}

// NewMetricsLogger creates a metrics logger writing to w.
func NewMetricsLogger(w io.Writer) *MetricsLogger {
	l := log.New("tether")
	l.SetHeader("${time_rfc3339} ${prefix} ${level}")
	l.SetLevel(log.INFO)
	l.SetOutput(w)
	return &MetricsLogger{logger: l}
}

// OnTrainBegin records the run shape for epoch reporting.
func (m *MetricsLogger) OnTrainBegin(info framework.TrainingInfo) {
	m.epochs = info.Epochs
	m.logger.Infof("training: %d epochs, %d samples, batch size %d",
		info.Epochs, info.Samples, info.BatchSize)
}

// OnEpochEnd logs the epoch's metrics in a stable name order.
func (m *MetricsLogger) OnEpochEnd(epoch int, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(" - ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(formatMetric(metrics[name]))
	}
	m.logger.Infof("epoch %d/%d - %s", epoch+1, m.epochs, b.String())
}

// OnTrainEnd logs completion.
func (m *MetricsLogger) OnTrainEnd() {
	m.logger.Info("training complete")
}

var _ framework.Callback = (*MetricsLogger)(nil)
