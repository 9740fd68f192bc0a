package service

import (
	"context"

	"github.com/jobguard/api-service/internal/domain/entity"
)

// Encoder turns text into embedding vectors
type Encoder interface {
	// Encode returns one embedding per input text, in the same order
	Encode(ctx context.Context, texts []string) ([]entity.Embedding, error)

	// ModelID names the pretrained model behind the encoder
	ModelID() string
}

// Classifier defines the interface for embedding classification
type Classifier interface {
	// Predict returns the discrete label for an embedding
	Predict(vec entity.Embedding) (entity.Label, error)

	// DecisionFunction returns the signed distance from the separating boundary
	DecisionFunction(vec entity.Embedding) (float64, error)

	// Classify returns the label and the decision value from a single evaluation
	Classify(vec entity.Embedding) (entity.Label, float64, error)

	// Dimensions returns the embedding length the classifier was trained on
	Dimensions() int
}
