package huggingface

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func testConfig(url string) Config {
	return Config{BaseURL: url, APIKey: "hf_test", Retry: fastRetry()}
}

func TestTextQA_Answer(t *testing.T) {
	var got map[string]map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/deepset/roberta-base-squad2", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"answer":"Paris","score":0.97,"start":25,"end":30}`))
	}))
	defer server.Close()

	qa := NewTextQA(testConfig(server.URL))
	c, err := qa.Answer(context.Background(), "What is the capital?", "The capital of France is Paris.")

	require.NoError(t, err)
	assert.Equal(t, "Paris", c.Answer)
	assert.InDelta(t, 0.97, c.Score, 1e-9)
	assert.Equal(t, 25, c.Start)
	assert.Equal(t, "What is the capital?", got["inputs"]["question"])
	assert.Equal(t, "The capital of France is Paris.", got["inputs"]["context"])
	assert.Equal(t, "deepset/roberta-base-squad2", qa.ModelName())
}

func TestTextQA_ListResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"answer":"low","score":0.1},{"answer":"high","score":0.8}]`))
	}))
	defer server.Close()

	c, err := NewTextQA(testConfig(server.URL)).Answer(context.Background(), "q", "ctx")

	require.NoError(t, err)
	assert.Equal(t, "high", c.Answer)
}

func TestTextQA_EmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := NewTextQA(testConfig(server.URL)).Answer(context.Background(), "q", "ctx")

	assert.ErrorIs(t, err, domain.ErrNoAnswer)
}

func TestDocumentQA_Answer(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	path := filepath.Join(t.TempDir(), "page_0.png")
	require.NoError(t, os.WriteFile(path, img, 0600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/impira/layoutlm-document-qa", r.URL.Path)
		var req documentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, base64.StdEncoding.EncodeToString(img), req.Inputs.Image)
		assert.Equal(t, "What is the total?", req.Inputs.Question)
		_, _ = w.Write([]byte(`[{"answer":"$99","score":0.4,"start":3,"end":3},{"answer":"99","score":0.9,"start":4,"end":4}]`))
	}))
	defer server.Close()

	cs, err := NewDocumentQA(testConfig(server.URL)).Answer(context.Background(), path, "What is the total?")

	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "99", cs[0].Answer)
	assert.Equal(t, "$99", cs[1].Answer)
}

func TestDocumentQA_MissingImage(t *testing.T) {
	_, err := NewDocumentQA(Config{BaseURL: "http://127.0.0.1:1"}).
		Answer(context.Background(), filepath.Join(t.TempDir(), "nope.png"), "q")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInfer_RetriesModelLoading(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20.0}`))
			return
		}
		_, _ = w.Write([]byte(`{"answer":"ok","score":0.5}`))
	}))
	defer server.Close()

	c, err := NewTextQA(testConfig(server.URL)).Answer(context.Background(), "q", "ctx")

	require.NoError(t, err)
	assert.Equal(t, "ok", c.Answer)
	assert.Equal(t, int32(3), calls.Load())
}

func TestInfer_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"Rate limit reached"}`))
	}))
	defer server.Close()

	_, err := NewTextQA(testConfig(server.URL)).Answer(context.Background(), "q", "ctx")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Contains(t, err.Error(), "Rate limit reached")
	assert.Equal(t, int32(3), calls.Load())
}

func TestInfer_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":["context is required"]}`))
	}))
	defer server.Close()

	_, err := NewTextQA(testConfig(server.URL)).Answer(context.Background(), "q", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "context is required")
	assert.Equal(t, int32(1), calls.Load())
}

func TestInfer_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTextQA(testConfig(server.URL)).Answer(ctx, "q", "ctx")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"loading", http.StatusServiceUnavailable, false},
		{"unauthorized", http.StatusUnauthorized, true},
		{"missing model", http.StatusNotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := NewDocumentQA(testConfig(server.URL)).Ping(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := newClient(Config{BaseURL: "http://x/"}, "m")
	assert.Equal(t, "http://x", c.baseURL)
	assert.Equal(t, "m", c.model)
	assert.Equal(t, DefaultRetryConfig(), c.retry)
	assert.Equal(t, "http://x/models/m", c.modelURL())

	d := newClient(Config{}, "m")
	assert.Equal(t, domain.DefaultHuggingFaceURL, d.baseURL)
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, MaxBackoff: 5 * time.Second}
	assert.Equal(t, time.Second, cfg.backoff(0))
	assert.Equal(t, 2*time.Second, cfg.backoff(1))
	assert.Equal(t, 4*time.Second, cfg.backoff(2))
	assert.Equal(t, 5*time.Second, cfg.backoff(3))
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, retryAfter(h))
	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, retryAfter(h))
	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Zero(t, retryAfter(h))
}

func TestRateLimiter_Pause(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	rl.Pause(30 * time.Millisecond)

	start := time.Now()
	require.NoError(t, rl.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	rl.Pause(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
}
