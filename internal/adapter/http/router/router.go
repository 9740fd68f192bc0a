package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jobguard/api-service/internal/adapter/http/handler"
	"github.com/jobguard/api-service/internal/adapter/http/middleware"
	"github.com/jobguard/api-service/internal/usecase"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	PredictionUC   usecase.PredictionUsecase
	Encoder        handler.Pinger
	Classifier     handler.ClassifierInfo
	Cache          handler.Pinger
	AllowedOrigins []string
}

// Setup creates and configures the Gin router
func Setup(deps Dependencies, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(deps.AllowedOrigins))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.Encoder, deps.Classifier, deps.Cache)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Prediction routes
	predictionHandler := handler.NewPredictionHandler(deps.PredictionUC)
	router.GET("/", predictionHandler.Root)
	router.POST("/predict", predictionHandler.Predict)

	return router
}
