// Package app wires configuration, models and transport into one
// process-wide, read-only application context.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/jobguard/api-service/internal/adapter/client"
	"github.com/jobguard/api-service/internal/adapter/http/handler"
	"github.com/jobguard/api-service/internal/adapter/http/router"
	"github.com/jobguard/api-service/internal/adapter/svm"
	"github.com/jobguard/api-service/internal/domain/service"
	"github.com/jobguard/api-service/internal/infrastructure/cache"
	"github.com/jobguard/api-service/internal/infrastructure/config"
	"github.com/jobguard/api-service/internal/infrastructure/provision"
	"github.com/jobguard/api-service/internal/usecase"
)

// App holds everything loaded at startup
type App struct {
	Config     *config.Config
	Classifier *svm.SVM
	Encoder    service.Encoder
	Usecase    usecase.PredictionUsecase
	Router     *gin.Engine

	redis *redis.Client
}

// Option customises Build
type Option func(*options)

type options struct {
	fs afero.Fs
}

// WithFs replaces the OS file system used for the classifier artifact
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// Provision runs only the model provisioning step and returns the artifact path
func Provision(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (string, error) {
	o := buildOptions(opts)

	p, err := provision.NewProvisioner(o.fs, &cfg.Model, logger)
	if err != nil {
		return "", err
	}
	if err := p.Ensure(ctx); err != nil {
		return "", err
	}
	return p.Path(), nil
}

// Build provisions and loads the models, checks the embedding server and
// assembles the HTTP router. Any error is fatal for the process.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := buildOptions(opts)

	path, err := Provision(ctx, cfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	classifier, err := svm.LoadFile(o.fs, path)
	if err != nil {
		return nil, err
	}
	logger.Info("Classifier loaded",
		zap.String("path", path),
		zap.String("kernel", string(classifier.Kernel())),
		zap.Int("dimensions", classifier.Dimensions()),
		zap.Int("support_vectors", classifier.SupportVectors()),
	)

	tei := client.NewTEIEncoder(
		client.NewTEIClient(cfg.Encoder.URL, cfg.Encoder.Timeout, client.WithNormalize(cfg.Encoder.Normalize)),
		cfg.Encoder.Model,
	)
	if err := checkEncoder(ctx, tei, logger); err != nil {
		return nil, err
	}

	a := &App{
		Config:     cfg,
		Classifier: classifier,
		Encoder:    tei,
	}

	var cachePinger handler.Pinger
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		} else {
			logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
			embCache := cache.NewEmbeddingCache(rdb, cfg.Redis.TTL)
			a.redis = rdb
			a.Encoder = client.NewCachedEncoder(tei, embCache, logger)
			cachePinger = embCache
		}
	}

	a.Usecase = usecase.NewPredictionUsecase(a.Encoder, classifier)
	a.Router = router.Setup(router.Dependencies{
		PredictionUC:   a.Usecase,
		Encoder:        tei,
		Classifier:     classifier,
		Cache:          cachePinger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, logger)

	return a, nil
}

// Close releases external connections
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func checkEncoder(ctx context.Context, tei *client.TEIEncoder, logger *zap.Logger) error {
	if err := tei.Ping(ctx); err != nil {
		return fmt.Errorf("embedding server unavailable: %w", err)
	}

	remote, err := tei.RemoteModelID(ctx)
	switch {
	case err != nil:
		logger.Warn("Could not read embedding server model", zap.Error(err))
	case remote != tei.ModelID():
		logger.Warn("Embedding server serves a different model",
			zap.String("expected", tei.ModelID()),
			zap.String("actual", remote),
		)
	default:
		logger.Info("Embedding server ready", zap.String("model", remote))
	}
	return nil
}

func buildOptions(opts []Option) *options {
	o := &options{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
