package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	encoder    Pinger
	cache      Pinger
	classifier ClassifierInfo
}

// ClassifierInfo describes the loaded classifier
type ClassifierInfo interface {
	Dimensions() int
}

// NewHealthHandler creates a new health handler. Any dependency may be nil.
func NewHealthHandler(encoder Pinger, classifier ClassifierInfo, cache Pinger) *HealthHandler {
	return &HealthHandler{
		encoder:    encoder,
		cache:      cache,
		classifier: classifier,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	healthy := true

	// Check embedding server
	if h.encoder != nil {
		if err := h.encoder.Ping(ctx); err != nil {
			components["encoder"] = "error: " + err.Error()
			healthy = false
		} else {
			components["encoder"] = "ok"
		}
	} else {
		components["encoder"] = "not configured"
	}

	// Check classifier
	if h.classifier != nil && h.classifier.Dimensions() > 0 {
		components["classifier"] = "ok"
	} else {
		components["classifier"] = "not loaded"
		healthy = false
	}

	// Check embedding cache; a broken cache degrades but does not fail the service
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			components["cache"] = "error: " + err.Error()
		} else {
			components["cache"] = "ok"
		}
	} else {
		components["cache"] = "not configured"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.encoder != nil {
		if err := h.encoder.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "encoder unreachable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
