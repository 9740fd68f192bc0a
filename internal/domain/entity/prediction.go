package entity

import "math"

var largestBelowOne = math.Nextafter(1, 0)

// Label is the binary class assigned to a job posting
type Label int

const (
	LabelLegitimate Label = 0
	LabelFraudulent Label = 1
)

// String returns the human readable name of the label
func (l Label) String() string {
	switch l {
	case LabelLegitimate:
		return "legitimate"
	case LabelFraudulent:
		return "fraudulent"
	default:
		return "unknown"
	}
}

// IsValid reports whether the label is one of the two known classes
func (l Label) IsValid() bool {
	return l == LabelLegitimate || l == LabelFraudulent
}

// Embedding is the fixed-length vector produced by the sentence encoder
type Embedding []float32

// Dimensions returns the length of the embedding
func (e Embedding) Dimensions() int {
	return len(e)
}

// Float64 returns a float64 copy of the embedding
func (e Embedding) Float64() []float64 {
	out := make([]float64, len(e))
	for i, v := range e {
		out[i] = float64(v)
	}
	return out
}

// Prediction is the transient result of classifying one posting
type Prediction struct {
	Label      Label
	Score      float64
	Confidence float64
}

// NewPrediction builds a Prediction from a label and the raw decision value
func NewPrediction(label Label, score float64) *Prediction {
	return &Prediction{
		Label:      label,
		Score:      score,
		Confidence: PseudoConfidence(score),
	}
}

// IsFraudulent returns true if the posting was classified as fraudulent
func (p *Prediction) IsFraudulent() bool {
	return p.Label == LabelFraudulent
}

// PseudoConfidence maps a signed decision-function value to |s| / (|s| + 1).
//
// The result lies in [0, 1): zero on the decision boundary, approaching one as
// the point moves away from it. It is a heuristic stand-in for certainty and
// is NOT a calibrated probability.
func PseudoConfidence(score float64) float64 {
	if math.IsNaN(score) {
		return score
	}
	abs := math.Abs(score)
	if math.IsInf(abs, 1) {
		return largestBelowOne
	}
	// abs+1 rounds to abs once |s| >= 2^53, which would yield exactly 1.
	if c := abs / (abs + 1); c < 1 {
		return c
	}
	return largestBelowOne
}
