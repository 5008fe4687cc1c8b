// Package huggingface provides text and document QA adapters backed by the
// Hugging Face Inference API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Default configuration values.
const (
	DefaultTimeout = 120 * time.Second

	// maxErrorBody caps how much of an error response ends up in messages.
	maxErrorBody = 512
)

// Config holds configuration shared by both adapters.
type Config struct {
	// APIKey is the Hugging Face access token. Optional, anonymous calls
	// are heavily rate limited.
	APIKey string

	// BaseURL is the Inference API base URL (default: https://api-inference.huggingface.co).
	BaseURL string

	// Model is the hosted model id.
	Model string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration

	// Limiter is shared between adapters talking to the same account.
	// A nil Limiter is created from RateLimit.
	Limiter *RateLimiter

	// RateLimit configures a fresh limiter when Limiter is nil.
	RateLimit RateLimitConfig

	// Retry controls retries on 503 and 429. Zero value selects the default.
	Retry RetryConfig
}

// client performs Inference API calls with throttling and retry.
type client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *RateLimiter
	retry   RetryConfig
}

// errorResponse is the Inference API error body.
type errorResponse struct {
	Error         any     `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

func newClient(cfg Config, defaultModel string) *client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultHuggingFaceURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(cfg.RateLimit)
	}
	if cfg.Retry == (RetryConfig{}) {
		cfg.Retry = DefaultRetryConfig()
	}

	return &client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: cfg.Limiter,
		retry:   cfg.Retry,
	}
}

func (c *client) modelURL() string {
	return c.baseURL + "/models/" + c.model
}

// infer posts payload to the model endpoint and returns the raw 200 body.
func (c *client) infer(ctx context.Context, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		status, header, body, err := c.send(ctx, http.MethodPost, jsonBody)
		if err != nil {
			return nil, err
		}
		if status == http.StatusOK {
			return body, nil
		}

		lastErr = statusError(status, body)
		if !retryable(status) || attempt == c.retry.MaxRetries {
			break
		}

		wait := c.retry.backoff(attempt)
		if status == http.StatusTooManyRequests {
			if ra := retryAfter(header); ra > wait {
				wait = ra
			}
			c.limiter.Pause(wait)
		}
		logger.Warn("huggingface %s: attempt %d/%d failed, retrying in %v: %v",
			c.model, attempt+1, c.retry.MaxRetries+1, wait, lastErr)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func (c *client) send(ctx context.Context, method string, body []byte) (int, http.Header, []byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.modelURL(), reader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, resp.Header, respBody, nil
}

// ping accepts 503 since a loading model is still reachable.
func (c *client) ping(ctx context.Context) error {
	status, _, body, err := c.send(ctx, http.MethodGet, nil)
	if err != nil {
		return fmt.Errorf("huggingface: ping failed: %w", err)
	}
	if status == http.StatusOK || status == http.StatusServiceUnavailable {
		return nil
	}
	return fmt.Errorf("huggingface: ping failed: %w", statusError(status, body))
}

// statusError maps a non-200 response to an error.
func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != nil {
		msg = fmt.Sprint(er.Error)
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "...(truncated)"
	}

	switch status {
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", domain.ErrModelLoading, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	default:
		return fmt.Errorf("huggingface error (status %d): %s", status, msg)
	}
}

// decodeCandidates accepts a single object or a list, and sorts best first.
func decodeCandidates(body []byte) ([]domain.Candidate, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var c domain.Candidate
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return []domain.Candidate{c}, nil
	}

	var cs []domain.Candidate
	if err := json.Unmarshal(trimmed, &cs); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Score > cs[j].Score })
	return cs, nil
}
