package svm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// Error definitions for model loading and evaluation
var (
	ErrInvalidModel      = errors.New("invalid svm model")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Model types accepted in the artifact
const (
	ModelTypeSVC       = "svc"
	ModelTypeLinearSVC = "linear_svc"
)

// Artifact is the JSON form of a trained binary SVM.
// Field names follow the scikit-learn attributes they are exported from.
type Artifact struct {
	ModelType      string      `json:"model_type"`
	Kernel         Kernel      `json:"kernel"`
	Gamma          float64     `json:"gamma,omitempty"`
	Coef0          float64     `json:"coef0,omitempty"`
	Degree         int         `json:"degree,omitempty"`
	Classes        []int       `json:"classes,omitempty"`
	SupportVectors [][]float64 `json:"support_vectors,omitempty"`
	DualCoef       []float64   `json:"dual_coef,omitempty"`
	Coef           []float64   `json:"coef,omitempty"`
	Intercept      float64     `json:"intercept"`
}

// Load decodes an artifact from r and builds the classifier
func Load(r io.Reader) (*SVM, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: failed to decode artifact: %v", ErrInvalidModel, err)
	}
	return New(&a)
}

// LoadFile reads the artifact stored at path on fs
func LoadFile(fs afero.Fs, path string) (*SVM, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return m, nil
}

func (a *Artifact) validate() (int, error) {
	switch a.ModelType {
	case "", ModelTypeSVC, ModelTypeLinearSVC:
	default:
		return 0, fmt.Errorf("%w: unknown model_type %q", ErrInvalidModel, a.ModelType)
	}

	if len(a.Classes) != 0 && (len(a.Classes) != 2 || a.Classes[0] != 0 || a.Classes[1] != 1) {
		return 0, fmt.Errorf("%w: classes must be [0, 1], got %v", ErrInvalidModel, a.Classes)
	}

	if a.ModelType == ModelTypeLinearSVC || (a.Kernel == KernelLinear && len(a.Coef) > 0) {
		if a.Kernel != "" && a.Kernel != KernelLinear {
			return 0, fmt.Errorf("%w: linear_svc requires the linear kernel", ErrInvalidModel)
		}
		if len(a.Coef) == 0 {
			return 0, fmt.Errorf("%w: coef is empty", ErrInvalidModel)
		}
		return len(a.Coef), nil
	}

	if !a.Kernel.IsValid() {
		return 0, fmt.Errorf("%w: unknown kernel %q", ErrInvalidModel, a.Kernel)
	}
	if len(a.SupportVectors) == 0 {
		return 0, fmt.Errorf("%w: no support vectors", ErrInvalidModel)
	}
	if len(a.DualCoef) != len(a.SupportVectors) {
		return 0, fmt.Errorf("%w: %d dual coefficients for %d support vectors",
			ErrInvalidModel, len(a.DualCoef), len(a.SupportVectors))
	}

	dims := len(a.SupportVectors[0])
	if dims == 0 {
		return 0, fmt.Errorf("%w: support vectors are empty", ErrInvalidModel)
	}
	for i, sv := range a.SupportVectors {
		if len(sv) != dims {
			return 0, fmt.Errorf("%w: support vector %d has %d dimensions, want %d",
				ErrInvalidModel, i, len(sv), dims)
		}
	}

	if a.Kernel != KernelLinear && a.Gamma <= 0 {
		return 0, fmt.Errorf("%w: gamma must be positive for the %s kernel", ErrInvalidModel, a.Kernel)
	}

	return dims, nil
}
