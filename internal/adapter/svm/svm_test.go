package svm

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobguard/api-service/internal/domain/entity"
)

func TestSVM_DecisionFunction(t *testing.T) {
	tests := []struct {
		name     string
		artifact *Artifact
		input    entity.Embedding
		expected float64
	}{
		{
			name: "linear svc primal weights",
			artifact: &Artifact{
				ModelType: ModelTypeLinearSVC,
				Coef:      []float64{1, -1},
				Intercept: 0.5,
			},
			input:    entity.Embedding{2, 1},
			expected: 1.5,
		},
		{
			name: "linear kernel from support vectors",
			artifact: &Artifact{
				ModelType:      ModelTypeSVC,
				Kernel:         KernelLinear,
				SupportVectors: [][]float64{{1, 0}, {0, 1}},
				DualCoef:       []float64{2, -1},
			},
			input:    entity.Embedding{1, 1},
			expected: 1,
		},
		{
			name: "rbf kernel at the support vector",
			artifact: &Artifact{
				Kernel:         KernelRBF,
				Gamma:          1,
				SupportVectors: [][]float64{{0, 0}},
				DualCoef:       []float64{1},
				Intercept:      -0.5,
			},
			input:    entity.Embedding{0, 0},
			expected: 0.5,
		},
		{
			name: "rbf kernel away from the support vector",
			artifact: &Artifact{
				Kernel:         KernelRBF,
				Gamma:          1,
				SupportVectors: [][]float64{{0, 0}},
				DualCoef:       []float64{1},
				Intercept:      -0.5,
			},
			input:    entity.Embedding{1, 1},
			expected: math.Exp(-2) - 0.5,
		},
		{
			name: "poly kernel",
			artifact: &Artifact{
				Kernel:         KernelPoly,
				Gamma:          1,
				Coef0:          1,
				Degree:         2,
				SupportVectors: [][]float64{{1, 1}},
				DualCoef:       []float64{1},
			},
			input:    entity.Embedding{1, 0},
			expected: 4,
		},
		{
			name: "poly kernel default degree",
			artifact: &Artifact{
				Kernel:         KernelPoly,
				Gamma:          1,
				SupportVectors: [][]float64{{2}},
				DualCoef:       []float64{1},
			},
			input:    entity.Embedding{1},
			expected: 8,
		},
		{
			name: "sigmoid kernel",
			artifact: &Artifact{
				Kernel:         KernelSigmoid,
				Gamma:          0.5,
				Coef0:          0,
				SupportVectors: [][]float64{{2}},
				DualCoef:       []float64{-1},
			},
			input:    entity.Embedding{1},
			expected: -math.Tanh(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.artifact)
			require.NoError(t, err)

			score, err := m.DecisionFunction(tt.input)

			assert.NoError(t, err)
			assert.InDelta(t, tt.expected, score, 1e-9)
		})
	}
}

func TestSVM_Predict(t *testing.T) {
	m, err := New(&Artifact{
		ModelType: ModelTypeLinearSVC,
		Coef:      []float64{1, 0},
	})
	require.NoError(t, err)

	t.Run("positive side is fraudulent", func(t *testing.T) {
		label, err := m.Predict(entity.Embedding{0.3, 9})
		assert.NoError(t, err)
		assert.Equal(t, entity.LabelFraudulent, label)
	})

	t.Run("negative side is legitimate", func(t *testing.T) {
		label, err := m.Predict(entity.Embedding{-0.3, 9})
		assert.NoError(t, err)
		assert.Equal(t, entity.LabelLegitimate, label)
	})

	t.Run("boundary is legitimate", func(t *testing.T) {
		label, err := m.Predict(entity.Embedding{0, 9})
		assert.NoError(t, err)
		assert.Equal(t, entity.LabelLegitimate, label)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := m.Predict(entity.Embedding{1, 2, 3})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestSVM_Classify(t *testing.T) {
	m, err := New(&Artifact{
		Kernel:         KernelRBF,
		Gamma:          0.5,
		SupportVectors: [][]float64{{1, 0}, {-1, 0}},
		DualCoef:       []float64{1, -1},
		Intercept:      0.1,
	})
	require.NoError(t, err)

	for _, vec := range []entity.Embedding{{1, 0}, {-1, 0}, {0, 0}, {0.2, 3}} {
		label, score, err := m.Classify(vec)
		require.NoError(t, err)

		wantScore, err := m.DecisionFunction(vec)
		require.NoError(t, err)
		wantLabel, err := m.Predict(vec)
		require.NoError(t, err)

		assert.Equal(t, wantScore, score)
		assert.Equal(t, wantLabel, label)
		assert.Equal(t, LabelFor(score), label)
	}

	_, _, err = m.Classify(entity.Embedding{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSVM_LinearKernelCollapses(t *testing.T) {
	m, err := New(&Artifact{
		Kernel:         KernelLinear,
		SupportVectors: [][]float64{{1, 2}, {3, 4}, {5, 6}},
		DualCoef:       []float64{0.5, -0.25, 0.1},
		Intercept:      0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, m.SupportVectors())
	assert.Equal(t, 2, m.Dimensions())
	assert.Equal(t, KernelLinear, m.Kernel())
}

func TestNew_InvalidArtifacts(t *testing.T) {
	tests := []struct {
		name     string
		artifact *Artifact
	}{
		{
			name:     "unknown model type",
			artifact: &Artifact{ModelType: "random_forest", Coef: []float64{1}},
		},
		{
			name:     "unknown kernel",
			artifact: &Artifact{Kernel: "cosine", SupportVectors: [][]float64{{1}}, DualCoef: []float64{1}},
		},
		{
			name:     "missing kernel",
			artifact: &Artifact{SupportVectors: [][]float64{{1}}, DualCoef: []float64{1}},
		},
		{
			name:     "no support vectors",
			artifact: &Artifact{Kernel: KernelRBF, Gamma: 1},
		},
		{
			name:     "dual coef length mismatch",
			artifact: &Artifact{Kernel: KernelRBF, Gamma: 1, SupportVectors: [][]float64{{1}, {2}}, DualCoef: []float64{1}},
		},
		{
			name:     "ragged support vectors",
			artifact: &Artifact{Kernel: KernelLinear, SupportVectors: [][]float64{{1, 2}, {3}}, DualCoef: []float64{1, 1}},
		},
		{
			name:     "empty support vector",
			artifact: &Artifact{Kernel: KernelLinear, SupportVectors: [][]float64{{}}, DualCoef: []float64{1}},
		},
		{
			name:     "non positive gamma",
			artifact: &Artifact{Kernel: KernelRBF, SupportVectors: [][]float64{{1}}, DualCoef: []float64{1}},
		},
		{
			name:     "linear svc without coef",
			artifact: &Artifact{ModelType: ModelTypeLinearSVC},
		},
		{
			name:     "linear svc with rbf kernel",
			artifact: &Artifact{ModelType: ModelTypeLinearSVC, Kernel: KernelRBF, Coef: []float64{1}},
		},
		{
			name:     "unexpected classes",
			artifact: &Artifact{ModelType: ModelTypeLinearSVC, Coef: []float64{1}, Classes: []int{1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.artifact)

			assert.ErrorIs(t, err, ErrInvalidModel)
			assert.Nil(t, m)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("decodes json artifact", func(t *testing.T) {
		body := `{
			"model_type": "svc",
			"kernel": "rbf",
			"gamma": 0.5,
			"classes": [0, 1],
			"support_vectors": [[1, 0], [0, 1]],
			"dual_coef": [1, -1],
			"intercept": 0
		}`

		m, err := Load(strings.NewReader(body))

		require.NoError(t, err)
		assert.Equal(t, KernelRBF, m.Kernel())
		assert.Equal(t, 2, m.Dimensions())
		assert.Equal(t, 2, m.SupportVectors())

		label, err := m.Predict(entity.Embedding{1, 0})
		assert.NoError(t, err)
		assert.Equal(t, entity.LabelFraudulent, label)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := Load(strings.NewReader("not json"))
		assert.ErrorIs(t, err, ErrInvalidModel)
	})
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/models/svm_model.json",
		[]byte(`{"model_type":"linear_svc","coef":[2,2],"intercept":-1}`), 0o644))

	t.Run("loads from file system", func(t *testing.T) {
		m, err := LoadFile(fs, "/models/svm_model.json")

		require.NoError(t, err)
		score, err := m.DecisionFunction(entity.Embedding{0.5, 0.5})
		assert.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(fs, "/models/missing.json")
		assert.Error(t, err)
	})
}

func TestSVM_ConcurrentUse(t *testing.T) {
	m, err := New(&Artifact{
		Kernel:         KernelRBF,
		Gamma:          0.1,
		SupportVectors: [][]float64{{1, 2, 3}, {-1, 0, 1}},
		DualCoef:       []float64{0.7, -0.4},
		Intercept:      0.05,
	})
	require.NoError(t, err)

	input := entity.Embedding{0.2, 0.4, 0.6}
	want, err := m.DecisionFunction(input)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := m.DecisionFunction(input)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, entity.LabelFraudulent, LabelFor(0.001))
	assert.Equal(t, entity.LabelLegitimate, LabelFor(0))
	assert.Equal(t, entity.LabelLegitimate, LabelFor(-3))
}
