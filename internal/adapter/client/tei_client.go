package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmbedRequest represents a request to the embedding server
type EmbedRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize"`
	Truncate  bool     `json:"truncate"`
}

// InfoResponse describes the model served by the embedding server
type InfoResponse struct {
	ModelID        string `json:"model_id"`
	ModelSHA       string `json:"model_sha,omitempty"`
	ModelDType     string `json:"model_dtype,omitempty"`
	MaxInputLength int    `json:"max_input_length,omitempty"`
	Version        string `json:"version,omitempty"`
}

// ErrorResponse represents an error body returned by the embedding server
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// TEIClient is an HTTP client for a text-embeddings-inference compatible server
type TEIClient struct {
	baseURL    string
	normalize  bool
	httpClient *http.Client
}

// TEIClientOption configures a TEIClient
type TEIClientOption func(*TEIClient)

// WithNormalize sets whether the server L2-normalizes embeddings. Defaults to true.
func WithNormalize(normalize bool) TEIClientOption {
	return func(c *TEIClient) {
		c.normalize = normalize
	}
}

// NewTEIClient creates a new embedding server client
func NewTEIClient(baseURL string, timeout time.Duration, opts ...TEIClientOption) *TEIClient {
	c := &TEIClient{
		baseURL:   baseURL,
		normalize: true,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Embed sends texts to the embedding server and returns one vector per text
func (c *TEIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := EmbedRequest{
		Inputs:    texts,
		Normalize: c.normalize,
		Truncate:  true,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result, nil
}

// Info returns the model description of the embedding server
func (c *TEIClient) Info(ctx context.Context) (*InfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/info", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result InfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Health checks if the embedding server is ready to serve
func (c *TEIClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding server not ready: status %d", resp.StatusCode)
	}

	return nil
}

func statusError(resp *http.Response) error {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil || len(respBody) == 0 {
		return fmt.Errorf("embedding server returned status %d", resp.StatusCode)
	}

	var errResp ErrorResponse
	if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("embedding server returned status %d: %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("embedding server returned status %d: %s", resp.StatusCode, string(respBody))
}
