package callbacks

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tether-ml/tether/framework"
)

func TestMetricsLogger_EpochLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewMetricsLogger(&buf)

	logger.OnTrainBegin(framework.TrainingInfo{Epochs: 2, Samples: 100, BatchSize: 32})
	logger.OnEpochEnd(0, map[string]float64{"loss": 0.5, "accuracy": 0.75})
	logger.OnEpochEnd(1, map[string]float64{"loss": 0.25, "accuracy": 0.875})
	logger.OnTrainEnd()

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)

	assert.Contains(t, out, "2 epochs, 100 samples, batch size 32")
	assert.Contains(t, out, "epoch 1/2")
	assert.Contains(t, out, "epoch 2/2")
	// Metric names come out in sorted order.
	assert.Contains(t, out, "accuracy: 0.7500 - loss: 0.5000")
	assert.Contains(t, out, "training complete")
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "0.5000", formatMetric(0.5))
	assert.Equal(t, "0.0000", formatMetric(0))
	assert.Equal(t, "1.2300e-06", formatMetric(1.23e-6))
	assert.Equal(t, "-2.5000e-05", formatMetric(-2.5e-5))
}
