package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"cloudriddle/internal/blob"
)

const (
	// DefaultReplicateURL is the public Replicate API.
	DefaultReplicateURL = "https://api.replicate.com"
	// DefaultModelVersion is the llava-13b vision model version.
	DefaultModelVersion = "b5f6212d032508382d61ff00469ddda3e32fd8a0e75dc39d8a4191bb742157fb"

	defaultPollInterval = time.Second
)

// Inferer sends one image and prompt to a hosted vision model and returns
// its answer as a single string.
type Inferer interface {
	Infer(ctx context.Context, imageDataURL, prompt string) (string, error)
}

// ReplicateClient runs predictions against the Replicate HTTP API.
type ReplicateClient struct {
	baseURL      string
	token        string
	version      string
	httpClient   *http.Client
	pollInterval time.Duration
}

// NewReplicateClient creates a client for one model version. An empty
// baseURL selects the public API.
func NewReplicateClient(baseURL, token, version string, timeout time.Duration) (*ReplicateClient, error) {
	if token == "" {
		return nil, fmt.Errorf("REPLICATE_API_TOKEN not set")
	}
	if baseURL == "" {
		baseURL = DefaultReplicateURL
	}
	if version == "" {
		version = DefaultModelVersion
	}

	return &ReplicateClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		token:        token,
		version:      version,
		httpClient:   &http.Client{Timeout: timeout},
		pollInterval: defaultPollInterval,
	}, nil
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (p *prediction) finished() bool {
	switch p.Status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

// Infer creates a prediction and waits for it to finish. Streamed output
// chunks are concatenated in order.
func (c *ReplicateClient) Infer(ctx context.Context, imageDataURL, prompt string) (string, error) {
	body, err := json.Marshal(predictionRequest{
		Version: c.version,
		Input:   predictionInput{Image: imageDataURL, Prompt: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	pred, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/predictions", body)
	if err != nil {
		return "", err
	}

	for !pred.finished() {
		if pred.URLs.Get == "" {
			return "", fmt.Errorf("%w: prediction %s has no status url", blob.ErrInference, pred.ID)
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", blob.ErrInference, ctx.Err())
		case <-time.After(c.pollInterval):
		}
		if pred, err = c.do(ctx, http.MethodGet, pred.URLs.Get, nil); err != nil {
			return "", err
		}
	}

	if pred.Status != "succeeded" {
		return "", fmt.Errorf("%w: prediction %s %s: %v", blob.ErrInference, pred.ID, pred.Status, pred.Error)
	}
	return joinOutput(pred.Output)
}

func (c *ReplicateClient) do(ctx context.Context, method, url string, body []byte) (*prediction, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "wait")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %v", blob.ErrInference, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", blob.ErrInference, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: api error (status %d): %s", blob.ErrInference, resp.StatusCode, string(data))
	}

	var pred prediction
	if err := json.Unmarshal(data, &pred); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", blob.ErrInference, err)
	}
	return &pred, nil
}

// joinOutput flattens a prediction output that is either a string or a list
// of streamed string chunks.
func joinOutput(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("%w: empty output", blob.ErrInference)
	}

	var chunks []string
	if err := json.Unmarshal(raw, &chunks); err == nil {
		return strings.Join(chunks, ""), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("%w: unexpected output %s", blob.ErrInference, string(raw))
	}
	return text, nil
}
