package model

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tether-ml/tether/framework"
	"github.com/tether-ml/tether/framework/frameworktest"
	"github.com/tether-ml/tether/tensor"
)

// recordingRecorder captures run-metadata side effects.
type recordingRecorder struct {
	evals []map[string]float64
	props []map[string]any
}

func (r *recordingRecorder) RecordEvaluation(m map[string]float64) error {
	r.evals = append(r.evals, m)
	return nil
}

func (r *recordingRecorder) RecordProperties(p map[string]any) error {
	r.props = append(r.props, p)
	return nil
}

func TestCompile_ReturnsSameModelForChaining(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{})
	m := New(fw, WithInteractive(false))

	chained, err := m.Compile(CompileConfig{Optimizer: "adam", Loss: "mse"})
	require.NoError(t, err)
	assert.Same(t, m, chained)
	assert.Equal(t, []string{"compile"}, fw.Calls)
	assert.Equal(t, "adam", fw.LastCompile.Optimizer)
	assert.Equal(t, "mse", fw.LastCompile.Loss)
}

// The metrics argument must always reach the framework as a list,
// never a bare scalar.
func TestCompile_MetricsAlwaysList(t *testing.T) {
	tests := []struct {
		name    string
		metrics any
		want    []string
	}{
		{name: "nil", metrics: nil, want: nil},
		{name: "single name", metrics: "accuracy", want: []string{"accuracy"}},
		{name: "list of names", metrics: []string{"accuracy", "mae"}, want: []string{"accuracy", "mae"}},
		{name: "single spec", metrics: framework.MetricSpec{Name: "mae"}, want: []string{"mae"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := frameworktest.New(frameworktest.Script{})
			m := New(fw, WithInteractive(false))

			_, err := m.Compile(CompileConfig{Metrics: tt.metrics})
			require.NoError(t, err)

			var names []string
			for _, spec := range fw.LastCompile.Metrics {
				names = append(names, spec.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

// Custom metric callables are tagged with the name the caller mapped
// them to, in deterministic order.
func TestCompile_CustomMetricTagging(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{})
	m := New(fw, WithInteractive(false))

	custom := func(yTrue, yPred *tensor.Tensor) float64 { return 0 }
	_, err := m.Compile(CompileConfig{
		Metrics: map[string]framework.MetricFunc{
			"top_k": custom,
			"iou":   custom,
		},
	})
	require.NoError(t, err)

	specs := fw.LastCompile.Metrics
	require.Len(t, specs, 2)
	assert.Equal(t, "iou", specs[0].Name)
	assert.Equal(t, "top_k", specs[1].Name)
	assert.NotNil(t, specs[0].Fn)
	assert.NotNil(t, specs[1].Fn)
}

func TestCompile_UnnamedCallableRejected(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{})
	m := New(fw, WithInteractive(false))

	var fn framework.MetricFunc = func(yTrue, yPred *tensor.Tensor) float64 { return 0 }
	_, err := m.Compile(CompileConfig{Metrics: fn})
	assert.ErrorIs(t, err, ErrMetricsSpec)
	assert.Empty(t, fw.Calls, "validation failures must not reach the framework")
}

func TestCompile_VersionGating(t *testing.T) {
	weighted := []string{"accuracy"}

	t.Run("2.2 accepts weighted metrics", func(t *testing.T) {
		fw := frameworktest.New(frameworktest.Script{Version: "2.2.0"})
		m := New(fw, WithInteractive(false))

		_, err := m.Compile(CompileConfig{WeightedMetrics: weighted})
		require.NoError(t, err)
		require.Len(t, fw.LastCompile.WeightedMetrics, 1)
		assert.Equal(t, "accuracy", fw.LastCompile.WeightedMetrics[0].Name)
	})

	t.Run("2.1 rejects weighted metrics", func(t *testing.T) {
		fw := frameworktest.New(frameworktest.Script{Version: "2.1.6"})
		m := New(fw, WithInteractive(false))

		_, err := m.Compile(CompileConfig{WeightedMetrics: weighted})
		assert.ErrorIs(t, err, ErrVersion)
		assert.Empty(t, fw.Calls)
	})

	t.Run("2.1 without extras compiles", func(t *testing.T) {
		fw := frameworktest.New(frameworktest.Script{Version: "2.1.6"})
		m := New(fw, WithInteractive(false))

		_, err := m.Compile(CompileConfig{Loss: "mse"})
		require.NoError(t, err)
	})

	t.Run("pre-2.0 unsupported", func(t *testing.T) {
		fw := frameworktest.New(frameworktest.Script{Version: "1.2.2"})
		m := New(fw, WithInteractive(false))

		_, err := m.Compile(CompileConfig{Loss: "mse"})
		assert.ErrorIs(t, err, ErrVersion)
	})
}

func TestGetLayer_NameAndIndex(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{
		Layers: []frameworktest.StubLayer{
			{LayerName: "dense_1"},
			{LayerName: "dense_2"},
		},
	})
	m := New(fw, WithInteractive(false))

	byName, err := m.GetLayer("dense_2")
	require.NoError(t, err)
	assert.Equal(t, "dense_2", byName.Name())

	byIndex, err := m.GetLayerAt(0)
	require.NoError(t, err)
	assert.Equal(t, "dense_1", byIndex.Name())

	_, err = m.GetLayer("missing")
	assert.Error(t, err)
}

func TestPop(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{
		Layers: []frameworktest.StubLayer{{LayerName: "only"}},
	})
	m := New(fw, WithInteractive(false))

	require.NoError(t, m.Pop())
	assert.Error(t, m.Pop(), "popping an empty model is a framework error")
}

func TestSummary_WritesToConfiguredStream(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{Summary: "Layer (type)  Output Shape  Param #"})
	var buf bytes.Buffer
	m := New(fw, WithOutput(&buf), WithInteractive(false))

	require.NoError(t, m.Summary())
	assert.Equal(t, "Layer (type)  Output Shape  Param #\n", buf.String())
}

func TestSave_OverwriteGuard(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "model.bin")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	fw := frameworktest.New(frameworktest.Script{})
	m := New(fw, WithInteractive(false))

	err := m.Save(existing, false)
	assert.ErrorIs(t, err, ErrExists)
	assert.Empty(t, fw.Saved, "guard failure must not reach the framework")

	require.NoError(t, m.Save(existing, true))
	assert.Equal(t, []string{existing}, fw.Saved)

	fresh := filepath.Join(dir, "fresh.bin")
	require.NoError(t, m.Save(fresh, false))
	assert.Contains(t, fw.Saved, fresh)
}

func TestConfigYAML(t *testing.T) {
	fw := frameworktest.New(frameworktest.Script{
		Config: map[string]any{"name": "sequential", "layers": []any{"dense"}},
	})
	m := New(fw, WithInteractive(false))

	out, err := m.ConfigYAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: sequential")
	assert.Contains(t, string(out), "- dense")
}

func TestAsClassWeight(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    map[int]float64
		wantErr bool
	}{
		{name: "nil passes through", in: nil, want: nil},
		{
			name: "int map",
			in:   map[int]float64{0: 1.0, 1: 2.5},
			want: map[int]float64{0: 1.0, 1: 2.5},
		},
		{
			name: "string-keyed map",
			in:   map[string]float64{"0": 1.0, "3": 0.5},
			want: map[int]float64{0: 1.0, 3: 0.5},
		},
		{
			name: "weight list",
			in:   []float64{1.0, 2.0, 3.0},
			want: map[int]float64{0: 1.0, 1: 2.0, 2: 3.0},
		},
		{name: "non-integer key", in: map[string]float64{"cat": 1.0}, wantErr: true},
		{name: "scalar", in: 1.5, wantErr: true},
		{name: "string", in: "balanced", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := asClassWeight(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrClassWeight)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The default batch size resolves to 32 exactly when both the batch
// size and the step count are unset.
func TestResolveBatchSize(t *testing.T) {
	assert.Equal(t, 32, resolveBatchSize(0, 0))
	assert.Equal(t, 16, resolveBatchSize(16, 0))
	assert.Equal(t, 0, resolveBatchSize(0, 100))
	assert.Equal(t, 16, resolveBatchSize(16, 100))
}
