package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jobguard/api-service/internal/domain/entity"
	"github.com/jobguard/api-service/internal/usecase"
)

// MockPredictionUsecase is a mock implementation of PredictionUsecase
type MockPredictionUsecase struct {
	mock.Mock
}

func (m *MockPredictionUsecase) Predict(ctx context.Context, input *usecase.PredictInput) (*usecase.PredictOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PredictOutput), args.Error(1)
}

func (m *MockPredictionUsecase) Classify(ctx context.Context, description string) (*entity.Prediction, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prediction), args.Error(1)
}

func setupPredictionRouter(uc usecase.PredictionUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPredictionHandler(uc)
	router := gin.New()
	router.GET("/", h.Root)
	router.POST("/predict", h.Predict)
	return router
}

func postPredict(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredictionHandler_Root(t *testing.T) {
	router := setupPredictionRouter(new(MockPredictionUsecase))

	for _, q := range []string{"/", "/?x=1"} {
		req, _ := http.NewRequest("GET", q, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"API running"}`, w.Body.String())
	}
}

func TestPredictionHandler_Predict(t *testing.T) {
	t.Run("returns prediction and confidence", func(t *testing.T) {
		uc := new(MockPredictionUsecase)
		uc.On("Predict", mock.Anything, &usecase.PredictInput{Description: "earn $5000 weekly"}).
			Return(&usecase.PredictOutput{Prediction: 1, Confidence: 0.75}, nil)

		w := postPredict(setupPredictionRouter(uc), `{"description":"earn $5000 weekly"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"prediction":1,"confidence":0.75}`, w.Body.String())
		uc.AssertExpectations(t)
	})

	t.Run("empty description is valid", func(t *testing.T) {
		uc := new(MockPredictionUsecase)
		uc.On("Predict", mock.Anything, &usecase.PredictInput{Description: ""}).
			Return(&usecase.PredictOutput{Prediction: 0, Confidence: 0.1}, nil)

		w := postPredict(setupPredictionRouter(uc), `{"description":""}`)

		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		uc := new(MockPredictionUsecase)
		uc.On("Predict", mock.Anything, &usecase.PredictInput{Description: "x"}).
			Return(&usecase.PredictOutput{Prediction: 0, Confidence: 0.2}, nil)

		w := postPredict(setupPredictionRouter(uc), `{"description":"x","title":"y"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	invalid := []struct {
		name string
		body string
	}{
		{"missing description", `{}`},
		{"null description", `{"description":null}`},
		{"numeric description", `{"description":42}`},
		{"malformed JSON", `{"description":`},
		{"empty body", ``},
		{"array body", `["text"]`},
		{"trailing garbage", `{"description":"x"} garbage`},
		{"concatenated objects", `{"description":"x"}{"description":5}`},
	}
	for _, tt := range invalid {
		t.Run(tt.name+" is rejected with 422", func(t *testing.T) {
			uc := new(MockPredictionUsecase)

			w := postPredict(setupPredictionRouter(uc), tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var response Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.False(t, response.Success)
			assert.Equal(t, "VALIDATION_ERROR", response.Error.Code)
			assert.NotEmpty(t, response.Error.Message)
			uc.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
		})
	}

	t.Run("inference failure returns 500", func(t *testing.T) {
		uc := new(MockPredictionUsecase)
		uc.On("Predict", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: encode: dial tcp: refused", usecase.ErrInference))

		w := postPredict(setupPredictionRouter(uc), `{"description":"x"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var response Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "INTERNAL_ERROR", response.Error.Code)
		assert.NotContains(t, w.Body.String(), "dial tcp")
	})
}
