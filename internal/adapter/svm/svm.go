// Package svm evaluates a pretrained binary support vector classifier
// exported from scikit-learn as JSON.
package svm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/jobguard/api-service/internal/domain/entity"
	"github.com/jobguard/api-service/internal/domain/service"
)

// Kernel names a kernel function
type Kernel string

const (
	KernelLinear  Kernel = "linear"
	KernelRBF     Kernel = "rbf"
	KernelPoly    Kernel = "poly"
	KernelSigmoid Kernel = "sigmoid"
)

// IsValid checks if the kernel is supported
func (k Kernel) IsValid() bool {
	switch k {
	case KernelLinear, KernelRBF, KernelPoly, KernelSigmoid:
		return true
	}
	return false
}

const defaultPolyDegree = 3

// SVM is an immutable binary classifier. It is safe for concurrent use.
type SVM struct {
	kernel    Kernel
	gamma     float64
	coef0     float64
	degree    float64
	sv        [][]float64
	dualCoef  []float64
	coef      []float64
	intercept float64
	dims      int
}

var _ service.Classifier = (*SVM)(nil)

// New validates the artifact and builds the classifier
func New(a *Artifact) (*SVM, error) {
	dims, err := a.validate()
	if err != nil {
		return nil, err
	}

	degree := a.Degree
	if degree == 0 {
		degree = defaultPolyDegree
	}

	m := &SVM{
		kernel:    a.Kernel,
		gamma:     a.Gamma,
		coef0:     a.Coef0,
		degree:    float64(degree),
		intercept: a.Intercept,
		dims:      dims,
	}
	if m.kernel == "" {
		m.kernel = KernelLinear
	}

	if len(a.Coef) > 0 && m.kernel == KernelLinear {
		m.coef = append([]float64(nil), a.Coef...)
		return m, nil
	}

	m.sv = make([][]float64, len(a.SupportVectors))
	for i, sv := range a.SupportVectors {
		m.sv[i] = append([]float64(nil), sv...)
	}
	m.dualCoef = append([]float64(nil), a.DualCoef...)

	// A linear kernel collapses to a single primal weight vector.
	if m.kernel == KernelLinear {
		m.coef = make([]float64, dims)
		for i, sv := range m.sv {
			floats.AddScaled(m.coef, m.dualCoef[i], sv)
		}
		m.sv, m.dualCoef = nil, nil
	}

	return m, nil
}

// Kernel returns the kernel the model evaluates
func (m *SVM) Kernel() Kernel {
	return m.kernel
}

// Dimensions returns the expected embedding length
func (m *SVM) Dimensions() int {
	return m.dims
}

// SupportVectors returns the number of support vectors kept for evaluation
func (m *SVM) SupportVectors() int {
	return len(m.sv)
}

// DecisionFunction returns the signed distance of vec from the boundary
func (m *SVM) DecisionFunction(vec entity.Embedding) (float64, error) {
	if len(vec) != m.dims {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), m.dims)
	}
	x := vec.Float64()

	if m.coef != nil {
		return floats.Dot(m.coef, x) + m.intercept, nil
	}

	sum := m.intercept
	for i, sv := range m.sv {
		sum += m.dualCoef[i] * m.eval(sv, x)
	}
	return sum, nil
}

// Predict returns LabelFraudulent when the decision value is positive
func (m *SVM) Predict(vec entity.Embedding) (entity.Label, error) {
	label, _, err := m.Classify(vec)
	return label, err
}

// Classify evaluates the decision function once and returns label and score
func (m *SVM) Classify(vec entity.Embedding) (entity.Label, float64, error) {
	score, err := m.DecisionFunction(vec)
	if err != nil {
		return entity.LabelLegitimate, 0, err
	}
	return LabelFor(score), score, nil
}

// LabelFor applies the binary decision rule to a decision value
func LabelFor(score float64) entity.Label {
	if score > 0 {
		return entity.LabelFraudulent
	}
	return entity.LabelLegitimate
}

func (m *SVM) eval(sv, x []float64) float64 {
	switch m.kernel {
	case KernelRBF:
		d := floats.Distance(sv, x, 2)
		return math.Exp(-m.gamma * d * d)
	case KernelPoly:
		return math.Pow(m.gamma*floats.Dot(sv, x)+m.coef0, m.degree)
	case KernelSigmoid:
		return math.Tanh(m.gamma*floats.Dot(sv, x) + m.coef0)
	default:
		return floats.Dot(sv, x)
	}
}
