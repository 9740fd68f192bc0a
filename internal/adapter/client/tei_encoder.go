package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobguard/api-service/internal/domain/entity"
	"github.com/jobguard/api-service/internal/domain/service"
)

// Error definitions for encoding
var (
	ErrNoInput        = errors.New("no texts to encode")
	ErrEmbeddingCount = errors.New("embedding count does not match input count")
	ErrEmbeddingShape = errors.New("embeddings have inconsistent dimensions")
)

// TEIEncoder adapts TEIClient to the Encoder interface
type TEIEncoder struct {
	client  *TEIClient
	modelID string
}

// NewTEIEncoder creates a new TEIEncoder serving modelID
func NewTEIEncoder(client *TEIClient, modelID string) *TEIEncoder {
	return &TEIEncoder{client: client, modelID: modelID}
}

var _ service.Encoder = (*TEIEncoder)(nil)

// ModelID returns the configured encoder model identifier
func (e *TEIEncoder) ModelID() string {
	return e.modelID
}

// Encode embeds texts, one vector per text in input order
func (e *TEIEncoder) Encode(ctx context.Context, texts []string) ([]entity.Embedding, error) {
	if len(texts) == 0 {
		return nil, ErrNoInput
	}

	vectors, err := e.client.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrEmbeddingCount, len(vectors), len(texts))
	}

	embeddings := make([]entity.Embedding, len(vectors))
	for i, v := range vectors {
		if len(v) != len(vectors[0]) {
			return nil, fmt.Errorf("%w: vector %d has %d, vector 0 has %d",
				ErrEmbeddingShape, i, len(v), len(vectors[0]))
		}
		embeddings[i] = entity.Embedding(v)
	}

	return embeddings, nil
}

// Ping checks if the embedding server is ready
func (e *TEIEncoder) Ping(ctx context.Context) error {
	return e.client.Health(ctx)
}

// RemoteModelID asks the embedding server which model it serves
func (e *TEIEncoder) RemoteModelID(ctx context.Context) (string, error) {
	info, err := e.client.Info(ctx)
	if err != nil {
		return "", err
	}
	return info.ModelID, nil
}
