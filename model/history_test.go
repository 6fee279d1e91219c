package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tether-ml/tether/framework"
)

func TestNewHistory_DerivesEpochIndices(t *testing.T) {
	h := newHistory(&framework.RawHistory{
		Metrics: map[string][]float64{"loss": {0.5, 0.4, 0.3, 0.2}},
	}, TrainingParams{Epochs: 4})

	assert.Equal(t, []int{0, 1, 2, 3}, h.Epoch)
	assert.Equal(t, []string{"loss"}, h.MetricNames)
	assert.Equal(t, []string{"loss"}, h.Params.Metrics)
}

func TestNewHistory_NilRaw(t *testing.T) {
	h := newHistory(nil, TrainingParams{})
	assert.Zero(t, h.Epochs())
	assert.Empty(t, h.Metrics)
}

func TestNewHistory_CopiesSeries(t *testing.T) {
	series := []float64{1, 2}
	raw := &framework.RawHistory{Metrics: map[string][]float64{"loss": series}}

	h := newHistory(raw, TrainingParams{})
	series[0] = 99
	assert.Equal(t, []float64{1, 2}, h.Series("loss"), "history must not alias framework buffers")
}

// Passing a history's per-epoch values back through the reshaping
// step yields the same mapping of metric name to ordered sequence.
func TestHistory_ReshapeRoundTrip(t *testing.T) {
	first := newHistory(&framework.RawHistory{
		Epoch: []int{0, 1},
		Metrics: map[string][]float64{
			"loss":     {0.8, 0.4},
			"val_loss": {0.9, 0.6},
			"accuracy": {0.5, 0.7},
		},
	}, TrainingParams{Epochs: 2})

	second := newHistory(&framework.RawHistory{
		Epoch:   first.Epoch,
		Metrics: first.Metrics,
	}, first.Params)

	require.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.Epoch, second.Epoch)
	assert.Equal(t, first.MetricNames, second.MetricNames)
}

func TestHistory_Final(t *testing.T) {
	h := newHistory(&framework.RawHistory{
		Metrics: map[string][]float64{"loss": {3, 2, 1}},
	}, TrainingParams{})

	v, ok := h.Final("loss")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = h.Final("missing")
	assert.False(t, ok)
}
