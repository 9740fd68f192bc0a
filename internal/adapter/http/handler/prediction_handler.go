package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobguard/api-service/internal/usecase"
)

// PredictRequest is the body of POST /predict.
// Description is a pointer so that "" is accepted while a missing or null field is not.
type PredictRequest struct {
	Description *string `json:"description" binding:"required"`
}

// StatusResponse is the body of GET /
type StatusResponse struct {
	Status string `json:"status"`
}

// PredictionHandler handles classification requests
type PredictionHandler struct {
	predictionUC usecase.PredictionUsecase
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionUC usecase.PredictionUsecase) *PredictionHandler {
	return &PredictionHandler{predictionUC: predictionUC}
}

// Root handles GET /
func (h *PredictionHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "API running"})
}

// Predict handles POST /predict
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := BindStrictJSON(c, &req); err != nil {
		HandleValidationError(c, err)
		return
	}

	output, err := h.predictionUC.Predict(c.Request.Context(), &usecase.PredictInput{
		Description: *req.Description,
	})
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}
