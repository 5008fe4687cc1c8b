// Package openai provides a text QA adapter using the OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure TextQA implements the interfaces.
var (
	_ driven.TextQA           = (*TextQA)(nil)
	_ driven.PromptStoreAware = (*TextQA)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	// maxAnswerTokens bounds the generated span.
	maxAnswerTokens = 128
)

// Config holds configuration for the OpenAI text QA adapter.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// TextQA answers questions by asking a chat model for a verbatim span.
type TextQA struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	promptStore driven.PromptStore
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewTextQA creates a new OpenAI text QA adapter.
func NewTextQA(cfg Config) (*TextQA, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &TextQA{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// defaultSystemPrompt is the fallback when no PromptStore is configured.
const defaultSystemPrompt = `You are an extractive question answering system.
Answer the question using a short span copied verbatim from the context.
If the context does not contain the answer, reply with an empty line.`

// defaultUserPrompt is the fallback when no PromptStore is configured.
const defaultUserPrompt = `Context:
%s

Question: %s
Answer:`

// Answer asks the model for a span and locates it in the context.
func (q *TextQA) Answer(ctx context.Context, question, content string) (domain.Candidate, error) {
	system := q.loadPrompt(driven.PromptExtractiveSystem, defaultSystemPrompt)
	user := fmt.Sprintf(q.loadPrompt(driven.PromptExtractiveUser, defaultUserPrompt), content, question)

	reply, err := q.chatCompletion(ctx, []chatCompletionMsg{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("text qa: %w", err)
	}

	c := domain.SpanCandidate(content, reply)
	if c.Answer == "" {
		return domain.Candidate{}, domain.ErrNoAnswer
	}
	return c, nil
}

func (q *TextQA) chatCompletion(ctx context.Context, messages []chatCompletionMsg) (string, error) {
	jsonBody, err := json.Marshal(chatCompletionRequest{
		Model:     q.model,
		Messages:  messages,
		MaxTokens: maxAnswerTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		q.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+q.apiKey)

	resp, err := q.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("openai: %w: %s", domain.ErrRateLimited, chatResp.Error.Message)
		}
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (q *TextQA) loadPrompt(name, fallback string) string {
	if q.promptStore == nil {
		return fallback
	}
	prompt, err := q.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// ModelName returns the name of the chat model being used.
func (q *TextQA) ModelName() string {
	return q.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (q *TextQA) SetPromptStore(store driven.PromptStore) {
	q.promptStore = store
}

// Ping validates the API key by listing models.
func (q *TextQA) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+q.apiKey)

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (q *TextQA) Close() error {
	return nil
}
