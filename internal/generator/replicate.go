package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"story-wall/shared/models"

	"go.uber.org/zap"
)

// ErrPredictionFailed is returned when the provider reports a failed prediction.
var ErrPredictionFailed = errors.New("prediction failed")

var maxImageBytes int64 = 20 << 20

// predictionInput is the model input of one image prediction.
type predictionInput struct {
	Prompt         string `json:"prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	NumOutputs     int    `json:"num_outputs"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

type predictionRequest struct {
	Version string          `json:"version,omitempty"`
	Input   predictionInput `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (p *prediction) terminal() bool {
	switch p.Status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

// outputURLs accepts either a single URL or a list of URLs.
func (p *prediction) outputURLs() []string {
	if len(p.Output) == 0 || string(p.Output) == "null" {
		return nil
	}
	var list []string
	if err := json.Unmarshal(p.Output, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

// replicateClient talks to a Replicate-compatible predictions API.
type replicateClient struct {
	baseURL      string
	token        string
	model        string
	pollInterval time.Duration
	http         *http.Client
	logger       *zap.Logger
}

func newReplicateClient(cfg ImageConfig, logger *zap.Logger) *replicateClient {
	return &replicateClient{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		token:        cfg.APIToken,
		model:        cfg.Model,
		pollInterval: cfg.PollInterval,
		http:         &http.Client{Timeout: cfg.HTTPTimeout},
		logger:       logger.Named("Replicate"),
	}
}

// endpoint returns the create URL and the version to send. "owner/name:version"
// targets a pinned version, "owner/name" the model's latest deployment.
func (c *replicateClient) endpoint() (string, string) {
	name, version, _ := strings.Cut(c.model, ":")
	if version != "" && version != "latest" {
		return c.baseURL + "/v1/predictions", version
	}
	return c.baseURL + "/v1/models/" + name + "/predictions", ""
}

// Predict creates a prediction and follows it until it reaches a terminal status.
func (c *replicateClient) Predict(ctx context.Context, input predictionInput) ([]string, error) {
	url, version := c.endpoint()
	body, err := json.Marshal(predictionRequest{Version: version, Input: input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	p, err := c.do(req)
	if err != nil {
		return nil, err
	}

	for !p.terminal() {
		if p.URLs.Get == "" {
			return nil, fmt.Errorf("%w: status %q without poll url", ErrPredictionFailed, p.Status)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		pollReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URLs.Get, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create poll request: %w", err)
		}
		if p, err = c.do(pollReq); err != nil {
			return nil, err
		}
		c.logger.Debug("Prediction polled", zap.String("id", p.ID), zap.String("status", p.Status))
	}

	if p.Status != "succeeded" {
		return nil, fmt.Errorf("%w: status %s: %s", ErrPredictionFailed, p.Status, string(p.Error))
	}
	return p.outputURLs(), nil
}

func (c *replicateClient) do(req *http.Request) (*prediction, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: API returned status %d: %s", ErrPredictionFailed, resp.StatusCode, string(data))
	}
	var p prediction
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return &p, nil
}

// Download fetches an output URL. Non-200 answers and bodies that are empty or
// larger than maxImageBytes wrap models.ErrDownloadFailed.
func (c *replicateClient) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", models.ErrDownloadFailed, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if int64(len(data)) > maxImageBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", models.ErrDownloadFailed, maxImageBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", models.ErrDownloadFailed)
	}
	return data, nil
}

// extensionFor picks the file extension from the sniffed content type.
func extensionFor(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
