// Package phrases is an HTTP client for the batch key-phrase detection
// service. One request carries every chunk of a single document.
package phrases

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
)

const batchPath = "/v1/key-phrases/batch"

// BatchRequest is the service request body.
type BatchRequest struct {
	Locale string   `json:"locale"`
	Chunks []string `json:"chunks"`
}

// Phrase is one detected key phrase. Score is nil when the service omitted it.
type Phrase struct {
	Text  string   `json:"text"`
	Score *float64 `json:"score,omitempty"`
}

// ChunkResult holds the phrases detected in the chunk at Index.
type ChunkResult struct {
	Index   int      `json:"index"`
	Phrases []Phrase `json:"phrases,omitempty"`
}

// ChunkError reports that the chunk at Index could not be processed.
type ChunkError struct {
	Index   int    `json:"index"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// BatchResponse is the service response body. Results are ordered like the
// request chunks; a chunk that failed has an entry in Errors instead.
type BatchResponse struct {
	Results []ChunkResult `json:"results"`
	Errors  []ChunkError  `json:"errors"`
}

// Client talks to the phrase-extraction service over a single HTTP client.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.ExtractionConfig) *Client {
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// DetectKeyPhrases submits one batch and decodes the response. A non-2xx
// status is returned as an error carrying the response body.
func (c *Client) DetectKeyPhrases(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling batch request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+batchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building batch request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling phrase service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("phrase service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out BatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding phrase service response: %w", err)
	}
	return &out, nil
}
