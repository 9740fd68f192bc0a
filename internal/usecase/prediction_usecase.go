package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jobguard/api-service/internal/domain/entity"
	"github.com/jobguard/api-service/internal/domain/service"
	"github.com/jobguard/api-service/internal/infrastructure/metrics"
)

// ErrInference is wrapped by every encoder or classifier failure
var ErrInference = errors.New("inference failed")

// PredictInput represents the input for classifying one posting
type PredictInput struct {
	Description string
}

// PredictOutput is the wire shape of a prediction
type PredictOutput struct {
	Prediction int     `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// PredictionUsecase defines the interface for posting classification
type PredictionUsecase interface {
	Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error)
	Classify(ctx context.Context, description string) (*entity.Prediction, error)
}

type predictionUsecase struct {
	encoder    service.Encoder
	classifier service.Classifier
}

// NewPredictionUsecase creates a new prediction usecase
func NewPredictionUsecase(encoder service.Encoder, classifier service.Classifier) PredictionUsecase {
	return &predictionUsecase{
		encoder:    encoder,
		classifier: classifier,
	}
}

// Predict classifies the description and returns the response payload
func (uc *predictionUsecase) Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error) {
	p, err := uc.Classify(ctx, input.Description)
	if err != nil {
		return nil, err
	}

	return &PredictOutput{
		Prediction: int(p.Label),
		Confidence: p.Confidence,
	}, nil
}

// Classify runs encode, classify and the confidence transform for one text
func (uc *predictionUsecase) Classify(ctx context.Context, description string) (*entity.Prediction, error) {
	start := time.Now()

	embeddings, err := uc.encoder.Encode(ctx, []string{description})
	if err != nil {
		metrics.InferenceErrors.WithLabelValues(metrics.StageEncode).Inc()
		return nil, fmt.Errorf("%w: encode: %w", ErrInference, err)
	}
	if len(embeddings) != 1 {
		metrics.InferenceErrors.WithLabelValues(metrics.StageEncode).Inc()
		return nil, fmt.Errorf("%w: encode: got %d embeddings for 1 text", ErrInference, len(embeddings))
	}
	vec := embeddings[0]

	label, score, err := uc.classifier.Classify(vec)
	if err != nil {
		metrics.InferenceErrors.WithLabelValues(metrics.StageClassify).Inc()
		return nil, fmt.Errorf("%w: classify: %w", ErrInference, err)
	}

	metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	metrics.Predictions.WithLabelValues(label.String()).Inc()

	return entity.NewPrediction(label, score), nil
}
