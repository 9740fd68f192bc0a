// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobguard"

// Inference stages used as the stage label of InferenceErrors
const (
	StageEncode   = "encode"
	StageClassify = "classify"
)

var (
	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Predictions served, by label.",
	}, []string{"label"})

	InferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "inference_duration_seconds",
		Help:      "Time spent encoding and classifying one posting.",
		Buckets:   prometheus.DefBuckets,
	})

	InferenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inference_errors_total",
		Help:      "Failed inferences, by stage.",
	}, []string{"stage"})

	EmbeddingCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "embedding_cache_requests_total",
		Help:      "Embedding cache lookups, by result (hit, miss, error).",
	}, []string{"result"})

	ModelDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "model_downloads_total",
		Help:      "Classifier artifact downloads, by outcome.",
	}, []string{"outcome"})
)
