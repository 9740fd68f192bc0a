package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/jobguard/api-service/internal/domain/entity"
	"github.com/jobguard/api-service/internal/domain/service"
	"github.com/jobguard/api-service/internal/infrastructure/metrics"
)

// EmbeddingStore persists embeddings between requests
type EmbeddingStore interface {
	Get(ctx context.Context, model, text string) (entity.Embedding, bool, error)
	Set(ctx context.Context, model, text string, emb entity.Embedding) error
}

// CachedEncoder serves embeddings from a store and falls back to the wrapped
// encoder for misses. Store failures are logged and treated as misses.
type CachedEncoder struct {
	next   service.Encoder
	store  EmbeddingStore
	logger *zap.Logger
}

// NewCachedEncoder wraps next with store
func NewCachedEncoder(next service.Encoder, store EmbeddingStore, logger *zap.Logger) *CachedEncoder {
	return &CachedEncoder{next: next, store: store, logger: logger}
}

var _ service.Encoder = (*CachedEncoder)(nil)

// ModelID returns the model of the wrapped encoder
func (e *CachedEncoder) ModelID() string {
	return e.next.ModelID()
}

// Encode returns cached embeddings where present and encodes the rest in one call
func (e *CachedEncoder) Encode(ctx context.Context, texts []string) ([]entity.Embedding, error) {
	if len(texts) == 0 {
		return nil, ErrNoInput
	}

	model := e.next.ModelID()
	out := make([]entity.Embedding, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		emb, ok, err := e.store.Get(ctx, model, text)
		switch {
		case err != nil:
			metrics.EmbeddingCacheRequests.WithLabelValues("error").Inc()
			e.logger.Warn("Embedding cache lookup failed", zap.Error(err))
		case ok:
			metrics.EmbeddingCacheRequests.WithLabelValues("hit").Inc()
			out[i] = emb
			continue
		default:
			metrics.EmbeddingCacheRequests.WithLabelValues("miss").Inc()
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	encoded, err := e.next.Encode(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, emb := range encoded {
		out[missingIdx[j]] = emb
		if err := e.store.Set(ctx, model, missing[j], emb); err != nil {
			e.logger.Warn("Failed to cache embedding", zap.Error(err))
		}
	}

	return out, nil
}

// Ping checks the wrapped encoder when it supports health checks
func (e *CachedEncoder) Ping(ctx context.Context) error {
	if p, ok := e.next.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
