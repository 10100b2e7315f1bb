package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is the HTTP-based vision provider.
// Works with any OpenAI-compatible API (Ollama, OpenAI, vLLM, ...).
type Client struct {
	baseURL string
	config  *Config
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a new vision client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		config:  cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger.With("component", "analyze.client"),
	}, nil
}

// Vision analyzes an image with a prompt.
func (c *Client) Vision(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	content := []map[string]interface{}{
		{"type": "text", "text": prompt},
	}

	if req.Image != nil {
		b64, err := EncodeImageBase64(Downscale(req.Image, c.config.ResizeTo))
		if err != nil {
			return nil, fmt.Errorf("analyze: encode image: %w", err)
		}
		content = append(content, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]string{
				"url": "data:image/jpeg;base64," + b64,
			},
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}

	payload := map[string]interface{}{
		"model": model,
		"messages": []map[string]interface{}{{
			"role":    "user",
			"content": content,
		}},
		"max_tokens": maxTokens,
	}

	var result chatCompletionResponse
	if err := c.postRetry(ctx, "/chat/completions", payload, &result); err != nil {
		return nil, err
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("analyze: no choices returned")
	}

	latency := time.Since(start)
	c.logger.Debug("vision analysis complete",
		"model", result.Model,
		"latency_ms", latency.Milliseconds())

	return &Result{
		Content:   strings.TrimSpace(result.Choices[0].Message.Content),
		Model:     result.Model,
		LatencyMs: latency.Milliseconds(),
	}, nil
}

// Health checks that the API answers and the model is known.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// postRetry posts JSON and decodes the response into out, retrying
// retryable API errors with exponential backoff.
func (c *Client) postRetry(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analyze: marshal request: %w", err)
	}

	delay := c.config.RetryDelay
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying request", "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		c.auth(req)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := c.parseError(resp)
			resp.Body.Close()
			if ae, ok := apiErr.(*APIError); ok && ae.IsRetryable() {
				lastErr = apiErr
				continue
			}
			return apiErr
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("analyze: decode response: %w", err)
		}
		return nil
	}
	return lastErr
}

func (c *Client) auth(req *http.Request) {
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
}

func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Error.Message != "" {
		msg = apiResp.Error.Message
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// chatCompletionResponse mirrors the OpenAI-compatible wire format.
type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
