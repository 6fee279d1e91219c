package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tether-ml/tether/framework/frameworktest"
	"github.com/tether-ml/tether/generator"
)

func xorBatches() generator.Func {
	i := 0
	return func() (generator.Batch, error) {
		i++
		return generator.Batch{
			X: [][]float64{{float64(i % 2), float64(i / 2 % 2)}},
			Y: []float64{float64(i % 2)},
		}, nil
	}
}

// The adapter must pin the framework to one worker with
// multiprocessing off no matter what queue size the caller asks for.
func TestFitGenerator_PinsSingleWorker(t *testing.T) {
	for _, queueSize := range []int{0, 1, 10, 64} {
		fw := frameworktest.New(frameworktest.Script{})
		m := New(fw, WithInteractive(false))

		_, err := m.FitGenerator(xorBatches(), FitGeneratorConfig{
			StepsPerEpoch: 2,
			MaxQueueSize:  queueSize,
		})
		require.NoError(t, err)

		args := fw.LastGenerator
		assert.Equal(t, 1, args.Workers, "queue size %d", queueSize)
		assert.False(t, args.UseMultiprocessing, "queue size %d", queueSize)
	}
}

func TestFitGenerator_QueueSizeDefaulted(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{})
	m := New(fw, WithInteractive(false))

	_, err := m.FitGenerator(xorBatches(), FitGeneratorConfig{StepsPerEpoch: 1})
	require.NoError(t, err)
	assert.Equal(t, generator.DefaultQueueSize, fw.LastGenerator.MaxQueueSize)

	_, err = m.FitGenerator(xorBatches(), FitGeneratorConfig{StepsPerEpoch: 1, MaxQueueSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, fw.LastGenerator.MaxQueueSize)
}

func TestFitGenerator_RequiresSteps(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{})
	m := New(fw, WithInteractive(false))

	_, err := m.FitGenerator(xorBatches(), FitGeneratorConfig{})
	assert.ErrorIs(t, err, ErrSteps)
	assert.Empty(t, fw.Calls)

	_, err = m.FitGenerator(xorBatches(), FitGeneratorConfig{
		StepsPerEpoch: 1,
		Validation:    xorBatches(),
	})
	assert.ErrorIs(t, err, ErrSteps)
}

// Batches produced by the host callable go through the same array
// normalization as direct fit calls before the framework sees them.
func TestFitGenerator_NormalizesBatches(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{Drain: true})
	m := New(fw, WithInteractive(false))

	intBatches := func() (generator.Batch, error) {
		return generator.Batch{X: [][]int{{1, 2}}, Y: []int{1}}, nil
	}
	_, err := m.FitGenerator(intBatches, FitGeneratorConfig{StepsPerEpoch: 3, Epochs: 2})
	require.NoError(t, err)

	require.Len(t, fw.Batches, 6)
	for _, batch := range fw.Batches {
		assert.Equal(t, []int{1, 2}, batch.Inputs.Shape())
		assert.Equal(t, []float64{1, 2}, batch.Inputs.Data())
		assert.Equal(t, []float64{1}, batch.Targets.Data())
	}
}

func TestFitGenerator_ValidationIteratorAndRecord(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{})
	rec := &recordingRecorder{}
	m := New(fw, WithInteractive(false), WithRecorder(rec))

	_, err := m.FitGenerator(xorBatches(), FitGeneratorConfig{
		StepsPerEpoch:   4,
		Epochs:          2,
		Validation:      xorBatches(),
		ValidationSteps: 2,
	})
	require.NoError(t, err)

	assert.NotNil(t, fw.LastGenerator.ValidationData)
	assert.Equal(t, 2, fw.LastGenerator.ValidationSteps)
	require.Len(t, rec.props, 1)
	assert.Equal(t, 2, rec.props[0]["validation_steps"])
}

func TestEvaluateGenerator(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{
		MetricNames: []string{"loss", "accuracy"},
		EvalValues:  []float64{0.2, 0.9},
	})
	rec := &recordingRecorder{}
	m := New(fw, WithInteractive(false), WithRecorder(rec))

	result, err := m.EvaluateGenerator(xorBatches(), EvalGeneratorConfig{Steps: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"loss", "accuracy"}, result.Names)
	assert.Equal(t, []float64{0.2, 0.9}, result.Values)

	args := fw.LastGenerator
	assert.Equal(t, 1, args.Workers)
	assert.False(t, args.UseMultiprocessing)
	assert.Equal(t, 4, args.StepsPerEpoch)

	require.Len(t, rec.evals, 1)
	assert.Equal(t, 0.9, rec.evals[0]["accuracy"])

	_, err = m.EvaluateGenerator(xorBatches(), EvalGeneratorConfig{})
	assert.ErrorIs(t, err, ErrSteps)
}

func TestPredictGenerator(t *testing.T) {
	out := mustTensor(t, []float64{0.1, 0.9})
	fw := frameworktest.New(frameworktest.Script{Predictions: out})
	m := New(fw, WithInteractive(false))

	got, err := m.PredictGenerator(xorBatches(), PredictGeneratorConfig{Steps: 2})
	require.NoError(t, err)
	assert.Same(t, out, got)
	assert.Equal(t, 1, fw.LastGenerator.Workers)

	_, err = m.PredictGenerator(xorBatches(), PredictGeneratorConfig{})
	assert.ErrorIs(t, err, ErrSteps)
}
